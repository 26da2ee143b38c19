package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"envitrack/internal/metrics"
	"envitrack/internal/sensor"
	"envitrack/internal/version"
)

const sensorDataPath = "/sensor_data.json"

// ErrInvalidLimit is returned when a recent fetch asks for fewer than one record.
var ErrInvalidLimit = errors.New("limit must be greater than zero")

// StoreOptions parameterise the datastore fetcher.
type StoreOptions struct {
	BaseURL   string
	AuthToken string
	Timeout   time.Duration
	UserAgent string
}

// Store reads sensor records from a Firebase Realtime Database over its REST API.
type Store struct {
	opts    StoreOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewStore constructs a datastore fetcher.
func NewStore(opts StoreOptions, logger zerolog.Logger) *Store {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Store{
		opts:    opts,
		logger:  logger.With().Str("component", "store_fetcher").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
	}
}

// FetchAll retrieves every record in the store.
func (s *Store) FetchAll(ctx context.Context) ([]sensor.Reading, error) {
	return s.fetch(ctx, url.Values{})
}

// FetchRecent retrieves the limit most recently keyed records.
func (s *Store) FetchRecent(ctx context.Context, limit int) ([]sensor.Reading, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	query := url.Values{}
	query.Set("orderBy", `"$key"`)
	query.Set("limitToLast", strconv.Itoa(limit))
	return s.fetch(ctx, query)
}

func (s *Store) fetch(ctx context.Context, query url.Values) (readings []sensor.Reading, err error) {
	if s.baseURL == "" {
		return nil, errors.New("store url not configured")
	}

	start := time.Now()
	defer func() {
		metrics.ObserveFetch(time.Since(start), err)
	}()

	if s.opts.AuthToken != "" {
		query.Set("auth", s.opts.AuthToken)
	}
	endpoint := s.baseURL + sensorDataPath
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create store request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(s.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", version.UserAgent())
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send store request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read store response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseHTTPError(resp.StatusCode, payload)
	}

	readings, err = s.decode(payload)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Int("records", len(readings)).Msg("fetched sensor records")
	return readings, nil
}

// record mirrors one stored entry. Values are decoded as decimals so numeric
// strings written by some firmware are accepted alongside plain numbers.
type record struct {
	Timestamp   json.RawMessage     `json:"timestamp"`
	Temperature decimal.NullDecimal `json:"temperature"`
	Humidity    decimal.NullDecimal `json:"humidity"`
	AirQuality  decimal.NullDecimal `json:"air_quality"`
}

func (s *Store) decode(payload []byte) ([]sensor.Reading, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []sensor.Reading{}, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("decode store response: %w", err)
	}

	readings := make([]sensor.Reading, 0, len(raw))
	// Keys are walked in order so readings sharing a timestamp keep store order.
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		reading, err := decodeRecord(key, raw[key])
		if err != nil {
			s.logger.Warn().Str("key", key).Err(err).Msg("skipping unusable record")
			continue
		}
		readings = append(readings, reading)
	}

	sensor.SortByTime(readings)
	return readings, nil
}

func decodeRecord(key string, body json.RawMessage) (sensor.Reading, error) {
	var rec record
	if err := json.Unmarshal(body, &rec); err != nil {
		return sensor.Reading{}, fmt.Errorf("record: %w", err)
	}

	ts, err := parseTimestamp(rec.Timestamp)
	if err != nil {
		return sensor.Reading{}, err
	}

	return sensor.Reading{
		Timestamp:   ts,
		Temperature: valueOrNaN(rec.Temperature),
		Humidity:    valueOrNaN(rec.Humidity),
		AirQuality:  valueOrNaN(rec.AirQuality),
		SourceKey:   key,
	}, nil
}

// valueOrNaN maps an absent or null field to NaN.
func valueOrNaN(d decimal.NullDecimal) float64 {
	if !d.Valid {
		return math.NaN()
	}
	return d.Decimal.InexactFloat64()
}

// Epoch values above this are taken as milliseconds.
const millisThreshold = 1e11

func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return time.Time{}, errors.New("timestamp missing")
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return time.Time{}, fmt.Errorf("timestamp: %w", err)
		}
		s = strings.TrimSpace(s)
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return fromEpoch(n), nil
		}
		return cast.ToTimeInDefaultLocationE(s, time.Local)
	}

	n, err := strconv.ParseFloat(string(trimmed), 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp: unsupported value %s", trimmed)
	}
	return fromEpoch(n), nil
}

func fromEpoch(n float64) time.Time {
	if math.Abs(n) >= millisThreshold {
		return time.UnixMilli(int64(n))
	}
	sec, frac := math.Modf(n)
	return time.Unix(int64(sec), int64(frac*1e9))
}

type errorResponse struct {
	Error string `json:"error"`
}

func parseHTTPError(status int, payload []byte) error {
	var apiErr errorResponse
	if err := json.Unmarshal(payload, &apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("store error (%d): %s", status, apiErr.Error)
	}
	if len(payload) > 0 {
		return fmt.Errorf("store error (%d): %s", status, strings.TrimSpace(string(payload)))
	}
	return fmt.Errorf("store error (%d)", status)
}

var _ SensorFetcher = (*Store)(nil)
