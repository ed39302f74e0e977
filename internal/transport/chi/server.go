// Package chi implements the HTTP API surface.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shopscout-ai/shopscout/internal/domain"
	healthuc "github.com/shopscout-ai/shopscout/internal/usecase/health"
)

// Error codes returned in the error response body.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeProviderError    = "provider_error"
	codeInternalError    = "internal_error"
)

// Discoverer runs the product discovery pipeline.
type Discoverer interface {
	Discover(ctx context.Context, req domain.Requirement) ([]domain.RankedProduct, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server is the HTTP API server.
type Server struct {
	discovery Discoverer
	health    HealthChecker
	logger    *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(discovery Discoverer, health HealthChecker, logger *zap.Logger) *Server {
	return &Server{
		discovery: discovery,
		health:    health,
		logger:    logger,
	}
}

// Register mounts the API routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/v1/discover", s.Discover)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// discoverRequest is the POST /v1/discover request body.
type discoverRequest struct {
	ProductType         string   `json:"product_type"`
	Budget              string   `json:"budget,omitempty"`
	Location            string   `json:"location,omitempty"`
	SpecialRequirements []string `json:"special_requirements,omitempty"`
	Urgency             string   `json:"urgency,omitempty"`
	Brand               string   `json:"brand,omitempty"`
}

// productResponse is a single ranked product in the discover response.
type productResponse struct {
	Name              string            `json:"name"`
	Price             string            `json:"price"`
	URL               string            `json:"url"`
	Source            string            `json:"source"`
	Description       string            `json:"description"`
	KeySpecs          map[string]string `json:"key_specs"`
	DeliveryTime      string            `json:"delivery_time"`
	RelevanceScore    float64           `json:"relevance_score"`
	RankingReason     string            `json:"ranking_reason"`
	IsSpecificProduct bool              `json:"is_specific_product"`
	ProductRelevance  bool              `json:"product_relevance"`
	PriceMatch        bool              `json:"price_match"`
	QualityTier       string            `json:"quality_tier"`
	IsEstimatedPrice  bool              `json:"is_estimated_price"`
}

// discoverResponse is the POST /v1/discover response body.
type discoverResponse struct {
	Products []productResponse `json:"products"`
	Total    int               `json:"total"`
}

// errorResponse is the error response body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Discover handles POST /v1/discover.
func (s *Server) Discover(w http.ResponseWriter, r *http.Request) {
	var req discoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.ProductType == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "product_type is required")
		return
	}

	products, err := s.discovery.Discover(r.Context(), domain.Requirement{
		ProductType:         req.ProductType,
		Budget:              req.Budget,
		Location:            req.Location,
		SpecialRequirements: req.SpecialRequirements,
		Urgency:             req.Urgency,
		Brand:               req.Brand,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]productResponse, len(products))
	for i := range products {
		items[i] = productToResponse(&products[i])
	}

	writeJSON(w, http.StatusOK, discoverResponse{
		Products: items,
		Total:    len(items),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.logger.Warn("request cancelled", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, codeInternalError, "request cancelled")
		return
	}
	if errors.Is(err, domain.ErrSearchProviderError) ||
		errors.Is(err, domain.ErrCompletionProviderError) {
		s.logger.Warn("provider error", zap.Error(err))
		writeError(w, http.StatusBadGateway, codeProviderError, safeDomainMessage(err))
		return
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrSearchProviderError,
		domain.ErrCompletionProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func productToResponse(p *domain.RankedProduct) productResponse {
	specs := p.KeySpecs
	if specs == nil {
		specs = map[string]string{}
	}
	return productResponse{
		Name:              p.Name,
		Price:             p.Price,
		URL:               p.URL,
		Source:            p.Source,
		Description:       p.Description,
		KeySpecs:          specs,
		DeliveryTime:      p.DeliveryTime,
		RelevanceScore:    p.RelevanceScore,
		RankingReason:     p.RankingReason,
		IsSpecificProduct: p.IsSpecificProduct,
		ProductRelevance:  p.ProductRelevance,
		PriceMatch:        p.PriceMatch,
		QualityTier:       string(p.QualityTier),
		IsEstimatedPrice:  p.IsEstimatedPrice,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
