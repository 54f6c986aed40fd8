package series

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	"trendline-overlay/internal/cache"
	"trendline-overlay/internal/errors"
	"trendline-overlay/internal/models"
)

// csvRow maps a CSV file with the header time,open,high,low,close,volume.
type csvRow struct {
	Time   string `csv:"time"`
	Open   string `csv:"open"`
	High   string `csv:"high"`
	Low    string `csv:"low"`
	Close  string `csv:"close"`
	Volume string `csv:"volume"`
}

// jsonRow accepts numbers or numeric strings for every field.
type jsonRow struct {
	Time   json.Number `json:"time"`
	Open   json.Number `json:"open"`
	High   json.Number `json:"high"`
	Low    json.Number `json:"low"`
	Close  json.Number `json:"close"`
	Volume json.Number `json:"volume"`
}

// LoadCSV reads and parses a CSV candle series.
func LoadCSV(r io.Reader) ([]models.Candle, error) {
	var rows []*csvRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, errors.Wrap(err, "decoding csv")
	}

	raw := make([]RawCandle, len(rows))
	for i, row := range rows {
		raw[i] = RawCandle{
			Time:   row.Time,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		}
	}
	return Parse(raw)
}

// LoadJSON reads and parses a JSON array of candle objects.
func LoadJSON(r io.Reader) ([]models.Candle, error) {
	var rows []jsonRow
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		return nil, errors.Wrap(err, "decoding json")
	}

	raw := make([]RawCandle, len(rows))
	for i, row := range rows {
		raw[i] = RawCandle{
			Time:   row.Time.String(),
			Open:   row.Open.String(),
			High:   row.High.String(),
			Low:    row.Low.String(),
			Close:  row.Close.String(),
			Volume: row.Volume.String(),
		}
	}
	return Parse(raw)
}

// LoaderConfig configures a Loader.
type LoaderConfig struct {
	CacheTTL   time.Duration // 0 disables caching
	MaxCandles int           // 0 means unlimited
	Clock      cache.Clock   // nil uses the system clock
}

// Loader reads candle series from files and keeps parsed series for CacheTTL.
type Loader struct {
	cfg    LoaderConfig
	cache  *cache.TTL[string, []models.Candle]
	logger zerolog.Logger
}

// NewLoader creates a new file loader.
func NewLoader(cfg LoaderConfig, logger zerolog.Logger) *Loader {
	return &Loader{
		cfg:    cfg,
		cache:  cache.NewTTL[string, []models.Candle](cfg.CacheTTL, cfg.Clock),
		logger: logger.With().Str("component", "series_loader").Logger(),
	}
}

// Load returns the validated series stored at path. The format is chosen by
// extension: .csv or .json.
func (l *Loader) Load(ctx context.Context, path string) ([]models.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := filepath.Clean(path)
	if candles, ok := l.cache.Get(key); ok {
		l.logger.Debug().Str("path", key).Int("candles", len(candles)).Msg("Series cache hit")
		return slices.Clone(candles), nil
	}

	decode, err := decoderFor(key)
	if err != nil {
		return nil, errors.NewDataError(key, "choosing decoder", err)
	}

	f, err := os.Open(key)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewDataError(key, "opening series", errors.ErrDataNotFound)
		}
		return nil, errors.NewDataError(key, "opening series", err)
	}
	defer f.Close()

	start := time.Now()
	candles, err := decode(f)
	if err != nil {
		return nil, errors.NewDataError(key, "parsing series", err)
	}
	if l.cfg.MaxCandles > 0 && len(candles) > l.cfg.MaxCandles {
		return nil, errors.NewDataError(key, "checking size",
			errors.Wrapf(errors.ErrTooManyCandles, "%d candles, limit %d", len(candles), l.cfg.MaxCandles))
	}

	l.logger.Debug().
		Str("path", key).
		Int("candles", len(candles)).
		Dur("duration", time.Since(start)).
		Msg("Series loaded")

	l.cache.Set(key, candles)
	return slices.Clone(candles), nil
}

// CacheStats returns the loader cache counters.
func (l *Loader) CacheStats() cache.Stats {
	return l.cache.Stats()
}

func decoderFor(path string) (func(io.Reader) ([]models.Candle, error), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV, nil
	case ".json":
		return LoadJSON, nil
	}
	return nil, errors.Wrapf(errors.ErrUnsupportedFormat, "extension %q", filepath.Ext(path))
}
