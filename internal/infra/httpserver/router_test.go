package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gaiashield/gaiashield/internal/application"
	"github.com/gaiashield/gaiashield/internal/application/analyze"
	"github.com/gaiashield/gaiashield/internal/domain/analysis"
	"github.com/gaiashield/gaiashield/internal/domain/weather"
	"github.com/gaiashield/gaiashield/internal/infra/cache"
	"github.com/gaiashield/gaiashield/internal/middleware"
)

type staticWeather struct{}

func (staticWeather) Forecast(ctx context.Context, lat, lon float64, horizonDays int) (*weather.Forecast, error) {
	return weather.MockForecast(lat, lon, horizonDays), nil
}

type erroringGenerator struct{ err error }

func (g erroringGenerator) GenerateJSON(ctx context.Context, task analysis.Task, systemPrompt string, payload any, temperature float64) (json.RawMessage, error) {
	return nil, g.err
}

func newDemoServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := &analyze.Service{
		Mode:         analyze.ModeDemo,
		Gen:          erroringGenerator{err: &analysis.ConfigurationError{Missing: "GOOGLE_API_KEY"}},
		Cache:        cache.New(16, 10*time.Minute),
		Weather:      staticWeather{},
		SystemPrompt: func(analysis.Task) string { return "sys" },
		Clock:        application.SystemClock{},
	}
	srv := httptest.NewServer(NewRouter(svc, Options{Health: middleware.HealthHandler("demo", nil)}))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, out
}

func TestClimateDemoEndToEnd(t *testing.T) {
	srv := newDemoServer(t)

	resp, out := postJSON(t, srv.URL+"/api/analyze/climate_guard", `{
		"inputs": {"lat": 14.7167, "lon": -17.4677, "horizonDays": 10, "sector": "agri"}
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if out["ok"] != true || out["task"] != "climate_guard" {
		t.Errorf("envelope = %v", out)
	}
	if out["risk_level"] != "medium" {
		t.Errorf("risk_level = %v, want medium", out["risk_level"])
	}
	findings, _ := out["findings"].([]any)
	recos, _ := out["recommendations"].([]any)
	if len(findings) == 0 || len(recos) == 0 {
		t.Error("findings/recommendations empty in demo response")
	}
}

func TestBusinessValidationRejectedAtBoundary(t *testing.T) {
	srv := newDemoServer(t)

	resp, out := postJSON(t, srv.URL+"/api/analyze/business_shield", `{
		"inputs": {
			"sales": [{"date": "2025-01-01", "qty": 10, "revenue": 100}],
			"stock": [{"sku": "PROD-001", "qty": 5, "leadDays": 7}],
			"suppliers": [{"name": "A", "onTimeRate": 1.5, "region": "Dakar"}]
		}
	}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if out["error"] != "validation_error" {
		t.Errorf("error = %v, want validation_error", out["error"])
	}
	violations, _ := out["violations"].([]any)
	if len(violations) == 0 {
		t.Fatal("no violations in response")
	}
	found := false
	for _, v := range violations {
		m, _ := v.(map[string]any)
		if f, _ := m["field"].(string); strings.Contains(f, "onTimeRate") {
			found = true
		}
	}
	if !found {
		t.Errorf("violations %v do not name onTimeRate", violations)
	}
}

func TestCyberDemoEndToEnd(t *testing.T) {
	srv := newDemoServer(t)

	resp, out := postJSON(t, srv.URL+"/api/analyze/cyberprotect", `{
		"inputs": {"events": [{
			"id": "evt_001",
			"type": "email",
			"content": "URGENT: Votre compte PayPal a été suspendu. Cliquez ici: http://paypa1-secure.tk/login"
		}]}
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	actions, _ := out["actions"].([]any)
	if len(actions) == 0 {
		t.Fatal("no actions in demo response")
	}
	threat := false
	for _, a := range actions {
		m, _ := a.(map[string]any)
		if c, _ := m["classification"].(string); c == "malicious" || c == "suspicious" {
			threat = true
		}
	}
	if !threat {
		t.Error("no malicious or suspicious classification among demo actions")
	}
}

func TestMalformedBodyRejected(t *testing.T) {
	srv := newDemoServer(t)

	resp, out := postJSON(t, srv.URL+"/api/analyze/climate_guard", `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if out["error"] != "validation_error" {
		t.Errorf("error = %v", out["error"])
	}
}

func TestModelUnavailableMapsTo503(t *testing.T) {
	svc := &analyze.Service{
		Mode:         analyze.ModeLive,
		Gen:          erroringGenerator{err: &analysis.ModelUnavailableError{Attempts: 2, Err: context.DeadlineExceeded}},
		Cache:        cache.New(16, 10*time.Minute),
		Weather:      staticWeather{},
		SystemPrompt: func(analysis.Task) string { return "sys" },
		Clock:        application.SystemClock{},
	}
	srv := httptest.NewServer(NewRouter(svc, Options{}))
	t.Cleanup(srv.Close)

	resp, out := postJSON(t, srv.URL+"/api/analyze/climate_guard", `{
		"inputs": {"lat": 1, "lon": 2, "horizonDays": 5, "sector": "retail"}
	}`)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
	if out["error"] != "model_unavailable" {
		t.Errorf("error = %v, want model_unavailable", out["error"])
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newDemoServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var health struct {
		Status string `json:"status"`
		Mode   string `json:"mode"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "healthy" || health.Mode != "demo" {
		t.Errorf("health = %+v", health)
	}
}
