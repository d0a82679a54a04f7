package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"hotel-calendar/utils"
)

// The PMS expects range bounds as MM-dd-yyyy.
const chartDateLayout = "01-02-2006"

// ChartFetcher fetches the raw chart payload for a date range.
type ChartFetcher interface {
	FetchChart(ctx context.Context, start, end time.Time) ([]byte, error)
}

// ChartClient talks to the PMS chart endpoint.
type ChartClient struct {
	BaseURL      string
	BusinessUnit string
	HTTPClient   *http.Client
}

// NewChartClientFromEnv builds a client from CHART_API_URL and
// CHART_BUSINESS_UNIT.
func NewChartClientFromEnv() *ChartClient {
	return &ChartClient{
		BaseURL:      utils.EnvOrDefault("CHART_API_URL", "http://localhost:3000"),
		BusinessUnit: utils.EnvOrDefault("CHART_BUSINESS_UNIT", "1"),
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

type chartRequest struct {
	StartDate      string `json:"StartDate"`
	EndDate        string `json:"EndDate"`
	IdBusinessUnit string `json:"IdBusinessUnit"`
}

// FetchChart POSTs the date range and returns the response body verbatim;
// untangling the envelope is the normalizer's job.
func (c *ChartClient) FetchChart(ctx context.Context, start, end time.Time) ([]byte, error) {
	payload := chartRequest{
		StartDate:      start.Format(chartDateLayout),
		EndDate:        end.Format(chartDateLayout),
		IdBusinessUnit: c.BusinessUnit,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("cannot build chart request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/dataChart", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/plain")

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// Refresher runs the fetch-normalize-publish cycle against the store.
// Overlapping refreshes are tagged with a generation counter; a response
// from a superseded refresh is discarded, so the most recently issued
// request always wins.
type Refresher struct {
	fetcher ChartFetcher
	store   *ReservationStore
	clock   Clock

	mu         sync.Mutex
	generation uint64
	inFlight   int
}

func NewRefresher(fetcher ChartFetcher, store *ReservationStore, clock Clock) *Refresher {
	if clock == nil {
		clock = RealClock{}
	}
	return &Refresher{fetcher: fetcher, store: store, clock: clock}
}

// IsLoading reports whether any refresh is in flight.
func (r *Refresher) IsLoading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inFlight > 0
}

// RefreshRange computes the fetch window for a view: the full calendar
// year in Year view, the anchor's month otherwise.
func RefreshRange(view string, anchor time.Time) (time.Time, time.Time) {
	if view == ViewYear {
		start := time.Date(anchor.Year(), time.January, 1, 0, 0, 0, 0, anchor.Location())
		return start, time.Date(anchor.Year(), time.December, 31, 0, 0, 0, 0, anchor.Location())
	}
	start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	return start, start.AddDate(0, 1, -1)
}

// Refresh fetches the window for view/anchor and republishes the result
// into the store. Any failure degrades to an empty grid: collections are
// cleared, never left half-updated, and the loading flag always clears.
func (r *Refresher) Refresh(ctx context.Context, view string, anchor time.Time) error {
	start, end := RefreshRange(view, anchor)

	r.mu.Lock()
	r.generation++
	gen := r.generation
	r.inFlight++
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.inFlight--
		r.mu.Unlock()
	}()

	raw, err := r.fetcher.FetchChart(ctx, start, end)
	if err != nil {
		log.Printf("[chart] fetch %s..%s failed: %v", start.Format(chartDateLayout), end.Format(chartDateLayout), err)
		r.publish(gen, nil)
		return err
	}

	data := Normalize(raw, r.clock.Now())
	if !r.publish(gen, &data) {
		log.Printf("[chart] discarding stale response for generation %d", gen)
	}
	return nil
}

// publish applies a result to the store if gen is still the newest
// refresh. A nil result clears the collections (the fail-safe empty
// state). Returns false when the response was stale.
func (r *Refresher) publish(gen uint64, data *NormalizedData) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.generation {
		return false
	}
	if data == nil {
		r.store.Clear()
		return true
	}
	r.store.ApplyNormalized(*data)
	return true
}
