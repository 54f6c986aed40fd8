// Package overlay runs an explicitly selected overlay strategy on a candle series.
package overlay

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"trendline-overlay/internal/analysis"
	"trendline-overlay/internal/analysis/regression"
	"trendline-overlay/internal/analysis/trendline"
	"trendline-overlay/internal/config"
	"trendline-overlay/internal/errors"
	"trendline-overlay/internal/logging"
	"trendline-overlay/internal/models"
	"trendline-overlay/internal/series"
)

// SeriesLoader loads a validated candle series by source name.
type SeriesLoader interface {
	Load(ctx context.Context, source string) ([]models.Candle, error)
}

// Request asks for the overlay of one series.
type Request struct {
	Source string
	Mode   analysis.Mode
	// Params overrides the service engine parameters for this request. Pivot mode only.
	Params *trendline.Params
}

// Report is the outcome of one overlay run.
type Report struct {
	Source     string              `json:"source"`
	Mode       analysis.Mode       `json:"mode"`
	Strategy   string              `json:"strategy"`
	Candles    int                 `json:"candles"`
	Points     []models.ChartPoint `json:"points"`
	Result     *trendline.Result   `json:"result,omitempty"`
	Regression *regression.Line    `json:"regression,omitempty"`
	Duration   time.Duration       `json:"duration"`
}

// Found reports whether a line was drawn.
func (r *Report) Found() bool {
	return len(r.Points) > 0
}

// Service selects a strategy by mode and runs it on loaded series.
// There is no fallback between modes.
type Service struct {
	loader     SeriesLoader
	strategies map[analysis.Mode]analysis.OverlayStrategy
	logger     zerolog.Logger
}

// NewService creates a service. Invalid engine parameters are rejected here.
func NewService(loader SeriesLoader, params trendline.Params, logger zerolog.Logger) (*Service, error) {
	engine, err := trendline.New(params)
	if err != nil {
		return nil, err
	}
	return &Service{
		loader: loader,
		strategies: map[analysis.Mode]analysis.OverlayStrategy{
			analysis.ModePivot:      engine,
			analysis.ModeRegression: regression.New(),
		},
		logger: logger.With().Str("component", "overlay").Logger(),
	}, nil
}

// NewFromConfig wires a file-backed service from application configuration.
func NewFromConfig(cfg *config.Config, logger zerolog.Logger) (*Service, *series.Loader, error) {
	loader := series.NewLoader(series.LoaderConfig{
		CacheTTL:   cfg.Data.CacheTTL,
		MaxCandles: cfg.Data.MaxCandles,
	}, logger)

	svc, err := NewService(loader, cfg.EngineParams(), logger)
	if err != nil {
		return nil, nil, err
	}
	return svc, loader, nil
}

// Strategy returns the strategy registered for mode.
func (s *Service) Strategy(mode analysis.Mode) (analysis.OverlayStrategy, error) {
	strategy, ok := s.strategies[mode]
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownMode, "mode %q", mode)
	}
	return strategy, nil
}

// Run loads req.Source and computes its overlay.
func (s *Service) Run(ctx context.Context, req Request) (*Report, error) {
	if req.Source == "" {
		return nil, errors.NewValidationError("source", req.Source, "must not be empty")
	}
	strategy, err := s.strategyFor(req)
	if err != nil {
		return nil, err
	}

	candles, err := s.loader.Load(ctx, req.Source)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, req.Source, req.Mode, strategy, candles)
}

// Analyze computes the overlay of an in-memory series.
func (s *Service) Analyze(ctx context.Context, source string, mode analysis.Mode, candles []models.Candle) (*Report, error) {
	strategy, err := s.Strategy(mode)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, source, mode, strategy, candles)
}

func (s *Service) strategyFor(req Request) (analysis.OverlayStrategy, error) {
	strategy, err := s.Strategy(req.Mode)
	if err != nil {
		return nil, err
	}
	if req.Params == nil || req.Mode != analysis.ModePivot {
		return strategy, nil
	}
	return trendline.New(*req.Params)
}

func (s *Service) run(ctx context.Context, source string, mode analysis.Mode, strategy analysis.OverlayStrategy, candles []models.Candle) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	report := &Report{
		Source:   source,
		Mode:     mode,
		Strategy: strategy.Name(),
		Candles:  len(candles),
	}

	switch st := strategy.(type) {
	case *trendline.Engine:
		report.Result = st.Analyze(candles)
		report.Points = report.Result.Points
	default:
		report.Points = st.Overlay(candles)
		if mode == analysis.ModeRegression {
			if line, ok := regression.Fit(candles); ok {
				report.Regression = &line
			}
		}
	}
	report.Duration = time.Since(start)

	logging.LogOverlay(logging.WithSource(s.logger, source), string(mode), len(candles), report.Points, report.Duration)
	return report, nil
}
