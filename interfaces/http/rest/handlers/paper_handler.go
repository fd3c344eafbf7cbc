package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"papergraph/application/services"
	"papergraph/domain/paper"
	"papergraph/pkg/common"
	apperrors "papergraph/pkg/errors"
)

// PaperHandler handles paper network HTTP requests
type PaperHandler struct {
	papers        *services.PaperService
	discovery     *services.DiscoveryService
	collaborators *services.CollaboratorService
	defaultDepth  int
	defaultBranch int
	errors        *apperrors.ErrorHandler
	logger        *zap.Logger
}

// NewPaperHandler creates a new paper handler
func NewPaperHandler(
	papers *services.PaperService,
	discovery *services.DiscoveryService,
	collaborators *services.CollaboratorService,
	defaultDepth, defaultBranch int,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *PaperHandler {
	return &PaperHandler{
		papers:        papers,
		discovery:     discovery,
		collaborators: collaborators,
		defaultDepth:  defaultDepth,
		defaultBranch: defaultBranch,
		errors:        errorHandler,
		logger:        logger,
	}
}

// PaperNetworkResponse is the network payload for a single paper lookup.
type PaperNetworkResponse struct {
	Nodes                   []paper.Paper        `json:"nodes"`
	Links                   []paper.Edge         `json:"links"`
	CollaboratorSuggestions []paper.Collaborator `json:"collaboratorSuggestions"`
}

// GetPaperNetwork handles GET /papers/{paperID}. It expands the paper's
// citation neighborhood and ranks collaborator suggestions against the
// related papers found during traversal.
func (h *PaperHandler) GetPaperNetwork(w http.ResponseWriter, r *http.Request) {
	paperID := chi.URLParam(r, "paperID")
	if paperID == "" {
		h.errors.HandleStatus(w, r, http.StatusBadRequest, "Paper ID is required")
		return
	}

	depth := h.queryInt(r, "depth", h.defaultDepth)
	branch := h.queryInt(r, "branch", h.defaultBranch)

	// The traversal resolves the root through the same cache, so the
	// direct lookup here costs one cache hit and gives the subject paper
	// for similarity scoring.
	var (
		graph   *paper.Graph
		subject *paper.Paper
	)
	eg, egCtx := errgroup.WithContext(r.Context())
	eg.Go(func() error {
		g, err := h.discovery.Discover(egCtx, paperID, depth, branch)
		if err != nil {
			return err
		}
		graph = g
		return nil
	})
	eg.Go(func() error {
		p, err := h.papers.FetchPaperDetails(egCtx, paperID)
		if err != nil {
			return err
		}
		subject = p
		return nil
	})
	if err := eg.Wait(); err != nil {
		h.logger.Error("Failed to build paper network",
			zap.String("paperID", paperID),
			zap.Int("depth", depth),
			zap.Int("branch", branch),
			zap.Error(err),
		)
		h.errors.Handle(w, r, err)
		return
	}

	related := make([]paper.Paper, 0, len(graph.Nodes))
	for _, n := range graph.Nodes {
		if n.ID == subject.ID {
			continue
		}
		related = append(related, n)
	}

	common.RespondJSON(w, http.StatusOK, PaperNetworkResponse{
		Nodes:                   graph.Nodes,
		Links:                   graph.Links,
		CollaboratorSuggestions: h.collaborators.RankCollaborators(subject, related),
	})
}

// queryInt reads a non-negative integer query parameter.
func (h *PaperHandler) queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
