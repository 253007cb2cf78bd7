package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "bookpulse/internal/errors"
	"bookpulse/internal/services"
)

// AnalyticsHandler serves the read-only analytics API.
type AnalyticsHandler struct {
	service *services.AnalyticsService
	logger  *slog.Logger
}

// NewAnalyticsHandler creates the handler.
func NewAnalyticsHandler(service *services.AnalyticsService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger.With(slog.String("component", "analytics_handler")),
	}
}

// Routes returns the API routes.
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Route("/books", func(r chi.Router) {
		r.Get("/summary", h.GetSummary)
		r.Get("/controversy", h.GetControversy)
		r.Get("/similarity", h.GetBookSimilarity)
	})

	r.Route("/members", func(r chi.Router) {
		r.Get("/stats", h.GetMemberStats)
		r.Get("/correlation", h.GetCorrelation)
		r.Get("/similarity-matrix", h.GetSimilarityMatrix)
	})

	r.Route("/metrics", func(r chi.Router) {
		r.Get("/hot-takes", h.GetHotTakes)
		r.Get("/contrarian", h.GetContrarian)
		r.Get("/agreement", h.GetAgreement)
		r.Get("/proposer-bias", h.GetProposerBias)
	})

	r.Get("/awards", h.GetAwards)
	r.Get("/trends", h.GetTrends)
	r.Get("/health", h.GetHealth)

	return r
}

// GetSummary handles GET /api/books/summary
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Summary())
}

// GetControversy handles GET /api/books/controversy
func (h *AnalyticsHandler) GetControversy(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Controversy())
}

// GetBookSimilarity handles GET /api/books/similarity
func (h *AnalyticsHandler) GetBookSimilarity(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.BookSimilarities())
}

// GetMemberStats handles GET /api/members/stats
func (h *AnalyticsHandler) GetMemberStats(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.MemberStats())
}

// GetCorrelation handles GET /api/members/correlation
func (h *AnalyticsHandler) GetCorrelation(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Correlations())
}

// GetSimilarityMatrix handles GET /api/members/similarity-matrix.
// NaN cells mean "no overlap" and are rendered as JSON null.
func (h *AnalyticsHandler) GetSimilarityMatrix(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, newSimilarityMatrixResponse(h.service.TasteMatrix()))
}

// GetHotTakes handles GET /api/metrics/hot-takes?threshold=
func (h *AnalyticsHandler) GetHotTakes(w http.ResponseWriter, r *http.Request) {
	threshold := 0.0
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			h.renderError(w, r, apierrors.InvalidParameterError("threshold", "must be a non-negative number"))
			return
		}
		threshold = parsed
	}

	render.JSON(w, r, h.service.HotTakes(threshold))
}

// GetContrarian handles GET /api/metrics/contrarian
func (h *AnalyticsHandler) GetContrarian(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Contrarians())
}

// GetAgreement handles GET /api/metrics/agreement
func (h *AnalyticsHandler) GetAgreement(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Agreement())
}

// GetProposerBias handles GET /api/metrics/proposer-bias
func (h *AnalyticsHandler) GetProposerBias(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.ProposerBiases())
}

// GetAwards handles GET /api/awards
func (h *AnalyticsHandler) GetAwards(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Awards())
}

// GetTrends handles GET /api/trends
func (h *AnalyticsHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Trends())
}

// GetHealth handles GET /api/health
func (h *AnalyticsHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	snapshot := h.service.Snapshot()
	render.JSON(w, r, HealthResponse{
		Status:  "healthy",
		Books:   len(snapshot.Sessions),
		Members: len(h.service.MemberStats()),
		Hash:    snapshot.Hash,
	})
}

// HealthResponse reports service liveness and dataset shape.
type HealthResponse struct {
	Status  string `json:"status"`
	Books   int    `json:"books"`
	Members int    `json:"members"`
	Hash    string `json:"hash"`
}

func (h *AnalyticsHandler) renderError(w http.ResponseWriter, r *http.Request, apiErr *apierrors.APIError) {
	h.logger.WarnContext(r.Context(), "request rejected",
		"path", r.URL.Path,
		"error_code", apiErr.ErrorCode,
		"message", apiErr.Message,
	)
	if err := render.Render(w, r, apierrors.NewErrorResponse(apiErr)); err != nil {
		h.logger.ErrorContext(r.Context(), "render error response failed", "error", err)
	}
}
