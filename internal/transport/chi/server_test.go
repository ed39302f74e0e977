package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shopscout-ai/shopscout/internal/domain"
	healthuc "github.com/shopscout-ai/shopscout/internal/usecase/health"
)

// --- Mocks ---

type mockDiscoverer struct {
	products []domain.RankedProduct
	err      error
	gotReq   domain.Requirement
}

func (m *mockDiscoverer) Discover(_ context.Context, req domain.Requirement) ([]domain.RankedProduct, error) {
	m.gotReq = req
	return m.products, m.err
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report {
	return m.report
}

func newTestRouter(d Discoverer, h HealthChecker) http.Handler {
	r := chirouter.NewRouter()
	NewServer(d, h, zap.NewNop()).Register(r)
	return r
}

func rankedProduct(name string, score float64) domain.RankedProduct {
	return domain.RankedProduct{
		Product: domain.Product{
			Name:        name,
			Price:       "$1,299.00",
			URL:         "https://ebay.com.au/itm/1",
			Source:      "eBay",
			Description: "Intel i7, 16GB RAM",
			KeySpecs:    map[string]string{"brand": "Dell"},
		},
		RelevanceScore:    score,
		RankingReason:     "specific product page, overall quality: high",
		IsSpecificProduct: true,
		ProductRelevance:  true,
		QualityTier:       domain.TierForScore(score),
	}
}

// --- Discover tests ---

func TestDiscover_Success(t *testing.T) {
	d := &mockDiscoverer{products: []domain.RankedProduct{rankedProduct("Dell XPS 13", 0.8)}}
	router := newTestRouter(d, &mockHealth{})

	body := `{"product_type": "laptop", "budget": "$1500", "location": "Sydney", "brand": "Dell"}`
	req := httptest.NewRequest("POST", "/v1/discover", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp struct {
		Products []map[string]any `json:"products"`
		Total    int              `json:"total"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.Products) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	p := resp.Products[0]
	if p["name"] != "Dell XPS 13" || p["price"] != "$1,299.00" {
		t.Errorf("unexpected product: %v", p)
	}
	if p["quality_tier"] != "high" {
		t.Errorf("quality_tier = %v, want high", p["quality_tier"])
	}
	if p["is_specific_product"] != true {
		t.Errorf("is_specific_product = %v, want true", p["is_specific_product"])
	}

	if d.gotReq.ProductType != "laptop" || d.gotReq.Brand != "Dell" {
		t.Errorf("requirement not passed through: %+v", d.gotReq)
	}
}

func TestDiscover_EmptyResult(t *testing.T) {
	d := &mockDiscoverer{products: []domain.RankedProduct{}}
	router := newTestRouter(d, &mockHealth{})

	req := httptest.NewRequest("POST", "/v1/discover", strings.NewReader(`{"product_type": "laptop"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("empty result is a valid 200, got %d", rr.Code)
	}

	var resp struct {
		Products []any `json:"products"`
		Total    int   `json:"total"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 0 || resp.Products == nil {
		t.Errorf("expected empty non-null products array, got %+v", resp)
	}
}

func TestDiscover_MissingProductType_400(t *testing.T) {
	router := newTestRouter(&mockDiscoverer{}, &mockHealth{})

	req := httptest.NewRequest("POST", "/v1/discover", strings.NewReader(`{"budget": "$500"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeValidationFailed {
		t.Errorf("error code: got %s, want %s", errResp.Code, codeValidationFailed)
	}
}

func TestDiscover_MalformedBody_400(t *testing.T) {
	router := newTestRouter(&mockDiscoverer{}, &mockHealth{})

	req := httptest.NewRequest("POST", "/v1/discover", strings.NewReader(`{not json`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestDiscover_ProviderError_502(t *testing.T) {
	d := &mockDiscoverer{err: fmt.Errorf("search failed: %w", domain.ErrSearchProviderError)}
	router := newTestRouter(d, &mockHealth{})

	req := httptest.NewRequest("POST", "/v1/discover", strings.NewReader(`{"product_type": "laptop"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusBadGateway)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeProviderError {
		t.Errorf("error code: got %s, want %s", errResp.Code, codeProviderError)
	}
	if strings.Contains(errResp.Message, "search failed") {
		t.Errorf("internal detail leaked to client: %q", errResp.Message)
	}
}

func TestDiscover_InternalError_500(t *testing.T) {
	d := &mockDiscoverer{err: errors.New("boom")}
	router := newTestRouter(d, &mockHealth{})

	req := httptest.NewRequest("POST", "/v1/discover", strings.NewReader(`{"product_type": "laptop"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if strings.Contains(rr.Body.String(), "boom") {
		t.Error("internal error message leaked to client")
	}
}

// --- Health tests ---

func TestHealthCheck_Healthy(t *testing.T) {
	h := &mockHealth{report: healthuc.Report{
		Status: healthuc.Healthy,
		Checks: map[string]healthuc.CheckResult{"llm": healthuc.CheckOK},
	}}
	router := newTestRouter(&mockDiscoverer{}, h)

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestHealthCheck_Degraded_503(t *testing.T) {
	h := &mockHealth{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{"cache": healthuc.CheckError},
	}}
	router := newTestRouter(&mockDiscoverer{}, h)

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}

	var resp struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "degraded" || resp.Checks["cache"] != "error" {
		t.Errorf("unexpected response: %+v", resp)
	}
}
