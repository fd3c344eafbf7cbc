package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"papergraph/application/services"
	"papergraph/pkg/common"
	apperrors "papergraph/pkg/errors"
	"papergraph/pkg/utils"
)

// maxFlowchartBodyBytes bounds the request body; paper content can be
// large but not unbounded.
const maxFlowchartBodyBytes = 10 << 20

// FlowchartHandler handles flowchart generation HTTP requests
type FlowchartHandler struct {
	outlines *services.OutlineService
	errors   *apperrors.ErrorHandler
	logger   *zap.Logger
}

// NewFlowchartHandler creates a new flowchart handler
func NewFlowchartHandler(outlines *services.OutlineService, errorHandler *apperrors.ErrorHandler, logger *zap.Logger) *FlowchartHandler {
	return &FlowchartHandler{
		outlines: outlines,
		errors:   errorHandler,
		logger:   logger,
	}
}

// CreateFlowchartRequest represents the request body for flowchart generation
type CreateFlowchartRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// CreateFlowchart handles POST /flowcharts
func (h *FlowchartHandler) CreateFlowchart(w http.ResponseWriter, r *http.Request) {
	var req CreateFlowchartRequest
	if err := common.ParseJSONBody(r, &req, maxFlowchartBodyBytes); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	flowchart, err := h.outlines.GenerateFlowchart(r.Context(), req.Content)
	if err != nil {
		h.logger.Error("Failed to generate flowchart",
			zap.Int("contentLength", len(req.Content)),
			zap.Error(err),
		)
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":        uuid.New().String(),
		"flowchart": flowchart,
		"createdAt": utils.NowRFC3339(),
	})
}
