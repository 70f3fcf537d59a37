package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okvitka/mindhaven-backend/internal/domain"
	"github.com/okvitka/mindhaven-backend/internal/http/response"
	"github.com/okvitka/mindhaven-backend/internal/platform/apierr"
	"github.com/okvitka/mindhaven-backend/internal/platform/logger"
	"github.com/okvitka/mindhaven-backend/internal/services"
)

type AssessmentHandler struct {
	log           *logger.Logger
	assessmentSvc services.AssessmentService
}

func NewAssessmentHandler(log *logger.Logger, assessmentSvc services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{
		log:           log.With("handler", "AssessmentHandler"),
		assessmentSvc: assessmentSvc,
	}
}

// GET /api/tests
func (h *AssessmentHandler) ListTests(c *gin.Context) {
	response.RespondOK(c, h.assessmentSvc.ListQuestionnaires())
}

// GET /api/tests/:id
func (h *AssessmentHandler) GetTest(c *gin.Context) {
	def, err := h.assessmentSvc.GetQuestionnaire(c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, def)
}

// POST /api/tests/:id/submit
func (h *AssessmentHandler) SubmitTest(c *gin.Context) {
	var req struct {
		Answers     map[string]int `json:"answers"`
		Limit       int            `json:"limit"`
		MinPriority string         `json:"min_priority"`
		Save        *bool          `json:"save"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, err)
		return
	}

	persist := true
	if req.Save != nil {
		persist = *req.Save
	}
	result, err := h.assessmentSvc.Submit(c.Request.Context(), c.Param("id"), domain.AnswerSet(req.Answers), services.SubmitOptions{
		Limit:       req.Limit,
		MinPriority: req.MinPriority,
		Persist:     persist,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, result)
}
