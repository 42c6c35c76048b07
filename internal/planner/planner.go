// Package planner is the stateful front of the engine. It picks the
// forecast step for the jump time, memoizes results, records every run
// and reports metrics.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/spotter-dz/spotter/internal/cache"
	"github.com/spotter-dz/spotter/internal/engine"
	"github.com/spotter-dz/spotter/internal/influx"
	"github.com/spotter-dz/spotter/internal/logging"
	"github.com/spotter-dz/spotter/internal/storage"
	"github.com/spotter-dz/spotter/internal/wind"
	"github.com/spotter-dz/spotter/pkg/core"
)

// Request is one planning question.
type Request struct {
	Jump     core.JumpParameters
	Common   core.CommonParameters
	Terrain  core.TerrainData
	Forecast *wind.Forecast
}

// Response is a calculated or cached result.
type Response struct {
	Result      *engine.Result `json:"result"`
	InputHash   string         `json:"inputHash"`
	ProfileTime time.Time      `json:"profileTime"`
	Cached      bool           `json:"cached"`
	// CalculationID is the stored history ID, 0 when nothing was stored.
	CalculationID uint `json:"calculationId,omitempty"`
}

// Dependencies holds everything a Service uses. Cache, Storage and Influx
// are optional.
type Dependencies struct {
	Options    engine.Options
	Cache      *cache.ResultCache
	Storage    storage.Backend
	Influx     *influx.Manager
	LogManager *logging.SlogManager
}

// Service runs calculations. It is safe for concurrent use.
type Service struct {
	opts    engine.Options
	cache   *cache.ResultCache
	store   storage.Backend
	influx  *influx.Manager
	log     *slog.Logger
	metrics *metrics
}

// New creates a Service.
func New(deps Dependencies) (*Service, error) {
	m, err := newMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to create planner metrics: %w", err)
	}

	logManager := deps.LogManager
	if logManager == nil {
		logManager = logging.NewSlogManager()
	}

	return &Service{
		opts:    deps.Options,
		cache:   deps.Cache,
		store:   deps.Storage,
		influx:  deps.Influx,
		log:     logManager.Component("planner"),
		metrics: m,
	}, nil
}

type calculationKey struct{}

// LogAttrs reports the calculation a log record belongs to. It satisfies
// logging.ContextProvider.
func LogAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	hash, _ := ctx.Value(calculationKey{}).(string)
	if hash == "" {
		return nil
	}
	return []slog.Attr{slog.String("calculation", hash)}
}

// Calculate answers req from the cache, from stored history or by running
// the engine. A fresh engine run is stored; every answer is sent to
// telemetry. Failures in storage and telemetry are logged but do not fail
// the request.
func (s *Service) Calculate(ctx context.Context, req Request) (*Response, error) {
	s.metrics.calculations.Add(ctx, 1)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Forecast == nil || req.Forecast.Len() == 0 {
		return nil, s.fail(ctx, fmt.Errorf("no forecast: %w", core.ErrNoWindData))
	}

	profile, profileTime := req.Forecast.At(req.Common.JumpTime)
	in := engine.NewInput(req.Jump, req.Common, req.Terrain, profile)

	key, err := cache.Key(in, s.opts)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	ctx = context.WithValue(ctx, calculationKey{}, key)

	start := time.Now()
	if res, ok := s.cache.Get(key); ok {
		s.metrics.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("source", "cache")))
		s.log.DebugContext(ctx, "Serving cached result", "hash", key)
		s.report(ctx, calculation(in, res, key, profileTime), time.Since(start), true)
		return &Response{Result: res, InputHash: key, ProfileTime: profileTime, Cached: true}, nil
	}

	if resp, ok := s.fromHistory(ctx, key, profileTime, start); ok {
		return resp, nil
	}

	res, err := engine.Calculate(in, s.opts)
	elapsed := time.Since(start)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	s.metrics.duration.Record(ctx, float64(elapsed.Microseconds())/1000)
	s.cache.Add(key, res)

	s.log.InfoContext(ctx, "Calculated exit points",
		"hash", key,
		"groups", len(res.ExitPoints),
		"heading", res.Heading,
		"profileTime", profileTime,
		"duration", elapsed,
	)

	resp := &Response{Result: res, InputHash: key, ProfileTime: profileTime}
	rec, err := s.record(in, res, key, profileTime)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to record calculation", "hash", key, "error", err)
		return resp, nil
	}
	resp.CalculationID = rec.ID
	s.report(ctx, rec, elapsed, false)
	return resp, nil
}

// fromHistory answers from a stored calculation with the same input hash
// and puts it back into the cache.
func (s *Service) fromHistory(ctx context.Context, key string, profileTime, start time.Time) (*Response, bool) {
	if s.store == nil {
		return nil, false
	}
	rec, found, err := s.store.FindCalculation(key)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to look up stored calculation", "hash", key, "error", err)
		return nil, false
	}
	if !found || len(rec.Result) == 0 {
		return nil, false
	}

	var res engine.Result
	if err := json.Unmarshal(rec.Result, &res); err != nil {
		s.log.WarnContext(ctx, "Ignoring unreadable stored calculation", "id", rec.ID, "error", err)
		return nil, false
	}

	s.metrics.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("source", "history")))
	s.log.DebugContext(ctx, "Serving stored result", "hash", key, "id", rec.ID)
	s.cache.Add(key, &res)
	s.report(ctx, rec, time.Since(start), true)

	return &Response{
		Result:        &res,
		InputHash:     key,
		ProfileTime:   profileTime,
		Cached:        true,
		CalculationID: rec.ID,
	}, true
}

func (s *Service) fail(ctx context.Context, err error) error {
	class := errorClass(err)
	s.metrics.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("class", class)))
	s.log.WarnContext(ctx, "Calculation failed", "class", class, "error", err)
	return err
}

// calculation builds the history record of res.
func calculation(in engine.Input, res *engine.Result, key string, profileTime time.Time) core.Calculation {
	return core.Calculation{
		CreatedAt:   time.Now().UTC(),
		InputHash:   key,
		LandingZone: in.Common.LandingZone,
		JumpTime:    in.Common.JumpTime,
		ProfileTime: profileTime,
		Heading:     res.Heading,
		ExitPoints:  res.ExitPoints,
	}
}

func (s *Service) record(in engine.Input, res *engine.Result, key string, profileTime time.Time) (core.Calculation, error) {
	payload, err := json.Marshal(res)
	if err != nil {
		return core.Calculation{}, fmt.Errorf("encode result: %w", err)
	}

	rec := calculation(in, res, key, profileTime)
	rec.Result = payload
	if s.store != nil {
		if err := s.store.SaveCalculation(&rec); err != nil {
			return core.Calculation{}, err
		}
	}
	return rec, nil
}

func (s *Service) report(ctx context.Context, rec core.Calculation, elapsed time.Duration, cached bool) {
	if s.influx == nil {
		return
	}
	if err := s.influx.WritePoint(influx.CalculationPoint(rec, elapsed, cached)); err != nil {
		s.log.WarnContext(ctx, "Failed to write telemetry", "error", err)
	}
}

// History lists stored calculations, newest first.
func (s *Service) History(limit int) ([]core.Calculation, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListCalculations(limit)
}
