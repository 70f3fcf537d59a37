package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/okvitka/mindhaven-backend/internal/http/response"
	"github.com/okvitka/mindhaven-backend/internal/platform/apierr"
	"github.com/okvitka/mindhaven-backend/internal/platform/logger"
	"github.com/okvitka/mindhaven-backend/internal/services"
)

type ResourceHandler struct {
	log           *logger.Logger
	assessmentSvc services.AssessmentService
	feedbackSvc   services.FeedbackService
}

func NewResourceHandler(log *logger.Logger, assessmentSvc services.AssessmentService, feedbackSvc services.FeedbackService) *ResourceHandler {
	return &ResourceHandler{
		log:           log.With("handler", "ResourceHandler"),
		assessmentSvc: assessmentSvc,
		feedbackSvc:   feedbackSvc,
	}
}

// POST /api/resources/:id/rate
func (h *ResourceHandler) RateResource(c *gin.Context) {
	var req struct {
		TestResultID string `json:"test_result_id"`
		Rating       int    `json:"rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, err)
		return
	}
	if err := h.feedbackSvc.RateResource(c.Request.Context(), req.TestResultID, c.Param("id"), req.Rating); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}

// GET /api/resources/by-theme?ids=calm,mindfulness&limit=5
func (h *ResourceHandler) ByTheme(c *gin.Context) {
	rawIDs := strings.Split(c.Query("ids"), ",")
	ids := make([]string, 0, len(rawIDs))
	for _, id := range rawIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, apierr.Invalid("ids query parameter required"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	resources, err := h.assessmentSvc.ResourcesByTheme(c.Request.Context(), ids, limit)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, resources)
}
