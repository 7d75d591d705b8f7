// Package analyze coordinates the analysis pipeline: demo-mode check, cache
// lookup, enrichment, generation, schema validation and cache store.
package analyze

import (
	"context"
	"log"

	"golang.org/x/sync/singleflight"

	"github.com/gaiashield/gaiashield/internal/application"
	"github.com/gaiashield/gaiashield/internal/domain/analysis"
	"github.com/gaiashield/gaiashield/internal/domain/weather"
	"github.com/gaiashield/gaiashield/internal/fingerprint"
)

// Mode selects between live generation and canned demo responses. It is
// decided once at startup and injected, never read from the environment
// per call.
type Mode int

const (
	ModeLive Mode = iota
	ModeDemo
)

func (m Mode) String() string {
	if m == ModeDemo {
		return "demo"
	}
	return "live"
}

type Service struct {
	Mode         Mode
	Gen          analysis.Generator
	Cache        analysis.ResultCache
	Weather      weather.Provider
	SystemPrompt func(analysis.Task) string
	Clock        application.Clock

	flight singleflight.Group
}

// temperature maps the requested cost mode onto sampling temperature; the
// quality mode allows slightly more exploratory phrasing.
func temperature(c analysis.Constraints) float64 {
	if c.CostMode == analysis.CostQuality {
		return 0.3
	}
	return 0.2
}

func cacheKey(task analysis.Task, inputs any, cons analysis.Constraints, locale string) (string, error) {
	return fingerprint.Fingerprint(map[string]any{
		"task":        task,
		"inputs":      inputs,
		"constraints": cons,
		"locale":      locale,
	})
}

type climatePayload struct {
	analysis.ClimateInputs
	Forecast    *weather.Forecast    `json:"forecast"`
	Constraints analysis.Constraints `json:"constraints"`
	Locale      string               `json:"locale"`
}

type businessPayload struct {
	analysis.BusinessInputs
	Constraints analysis.Constraints `json:"constraints"`
	Locale      string               `json:"locale"`
}

type cyberPayload struct {
	analysis.CyberInputs
	Constraints analysis.Constraints `json:"constraints"`
	Locale      string               `json:"locale"`
}

// Climate runs the climate_guard pipeline. The weather enrichment is best
// effort: a failed forecast fetch is logged and replaced by the static mock,
// never failing the request.
func (s *Service) Climate(ctx context.Context, req analysis.ClimateRequest) (*analysis.Response, error) {
	if s.Mode == ModeDemo {
		log.Printf("climate analysis in demo mode")
		return MockClimate(), nil
	}

	key, err := cacheKey(analysis.TaskClimate, req.Inputs, req.Constraints, req.Locale)
	if err != nil {
		return nil, err
	}
	if resp, ok := s.Cache.Get(key); ok {
		log.Printf("climate analysis cache hit key=%s", key)
		return resp, nil
	}

	return s.runMiss(ctx, analysis.TaskClimate, key, req.Constraints, func(ctx context.Context) any {
		fc, err := s.Weather.Forecast(ctx, req.Inputs.Lat, req.Inputs.Lon, req.Inputs.HorizonDays)
		if err != nil {
			log.Printf("weather enrichment failed, using mock forecast err=%v", err)
			fc = weather.MockForecast(req.Inputs.Lat, req.Inputs.Lon, req.Inputs.HorizonDays)
		}
		return climatePayload{
			ClimateInputs: req.Inputs,
			Forecast:      fc,
			Constraints:   req.Constraints,
			Locale:        req.Locale,
		}
	})
}

// Business runs the business_shield pipeline.
func (s *Service) Business(ctx context.Context, req analysis.BusinessRequest) (*analysis.Response, error) {
	if s.Mode == ModeDemo {
		log.Printf("business analysis in demo mode")
		return MockBusiness(), nil
	}

	key, err := cacheKey(analysis.TaskBusiness, req.Inputs, req.Constraints, req.Locale)
	if err != nil {
		return nil, err
	}
	if resp, ok := s.Cache.Get(key); ok {
		log.Printf("business analysis cache hit key=%s", key)
		return resp, nil
	}

	return s.runMiss(ctx, analysis.TaskBusiness, key, req.Constraints, func(context.Context) any {
		return businessPayload{
			BusinessInputs: req.Inputs,
			Constraints:    req.Constraints,
			Locale:         req.Locale,
		}
	})
}

// Cyber runs the cyberprotect pipeline.
func (s *Service) Cyber(ctx context.Context, req analysis.CyberRequest) (*analysis.Response, error) {
	if s.Mode == ModeDemo {
		log.Printf("cyber analysis in demo mode")
		return MockCyber(), nil
	}

	key, err := cacheKey(analysis.TaskCyber, req.Inputs, req.Constraints, req.Locale)
	if err != nil {
		return nil, err
	}
	if resp, ok := s.Cache.Get(key); ok {
		log.Printf("cyber analysis cache hit key=%s", key)
		return resp, nil
	}

	return s.runMiss(ctx, analysis.TaskCyber, key, req.Constraints, func(context.Context) any {
		return cyberPayload{
			CyberInputs: req.Inputs,
			Constraints: req.Constraints,
			Locale:      req.Locale,
		}
	})
}

// runMiss executes the generate → validate → store tail of the pipeline.
// Concurrent misses on the same fingerprint share a single upstream call via
// singleflight. A SchemaError here is final for the invocation: the retry
// loop for malformed JSON syntax already ran inside the generator.
func (s *Service) runMiss(ctx context.Context, task analysis.Task, key string, cons analysis.Constraints, buildPayload func(context.Context) any) (*analysis.Response, error) {
	start := s.Clock.Now()
	v, err, shared := s.flight.Do(key, func() (any, error) {
		payload := buildPayload(ctx)
		raw, err := s.Gen.GenerateJSON(ctx, task, s.SystemPrompt(task), payload, temperature(cons))
		if err != nil {
			return nil, err
		}
		resp, err := analysis.ValidateResponse(task, raw)
		if err != nil {
			return nil, err
		}
		s.Cache.Set(key, resp)
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("%s analysis completed duration_ms=%d shared=%t", task, s.Clock.Now().Sub(start).Milliseconds(), shared)
	return v.(*analysis.Response), nil
}
