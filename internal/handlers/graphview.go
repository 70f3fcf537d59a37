package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/okvitka/mindhaven-backend/internal/http/response"
	"github.com/okvitka/mindhaven-backend/internal/platform/logger"
	"github.com/okvitka/mindhaven-backend/internal/services"
)

type GraphHandler struct {
	log           *logger.Logger
	assessmentSvc services.AssessmentService
}

func NewGraphHandler(log *logger.Logger, assessmentSvc services.AssessmentService) *GraphHandler {
	return &GraphHandler{
		log:           log.With("handler", "GraphHandler"),
		assessmentSvc: assessmentSvc,
	}
}

// GET /api/graph — the whole ontology for client-side visualization.
func (h *GraphHandler) GetGraph(c *gin.Context) {
	view, err := h.assessmentSvc.FullGraph(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, view)
}
