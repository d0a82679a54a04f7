package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"hotel-calendar/models"
)

// stubFetcher returns canned payloads or errors, optionally blocking until
// released, so response ordering in tests is deterministic.
type stubFetcher struct {
	mu      sync.Mutex
	replies []stubReply
	calls   int
}

type stubReply struct {
	payload []byte
	err     error
	wait    chan struct{}
}

func (f *stubFetcher) FetchChart(ctx context.Context, start, end time.Time) ([]byte, error) {
	f.mu.Lock()
	idx := f.calls
	f.calls++
	var reply stubReply
	if idx < len(f.replies) {
		reply = f.replies[idx]
	}
	f.mu.Unlock()

	if reply.wait != nil {
		<-reply.wait
	}
	return reply.payload, reply.err
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func reservationPayload(t *testing.T, guid, text string) []byte {
	t.Helper()
	return chartPayload(t,
		[]map[string]interface{}{{"id": 1, "text": "Habitación 101", "roomType": "TR1"}},
		[]map[string]interface{}{{"GUID": guid, "suitedId": 1, "text": text,
			"startDate": "2024-03-01T15:00:00", "endDate": "2024-03-02T15:00:00"}},
	)
}

func TestRefresh_PublishesNormalizedData(t *testing.T) {
	store := NewReservationStore(fixedClock{now: testNow})
	fetcher := &stubFetcher{replies: []stubReply{{payload: reservationPayload(t, "g-1", "Ana")}}}
	r := NewRefresher(fetcher, store, fixedClock{now: testNow})

	if err := r.Refresh(context.Background(), ViewMonth, testNow); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	rooms := store.Rooms()
	if len(rooms) != 1 || rooms[0].Type != "Estándar" {
		t.Fatalf("unexpected rooms: %+v", rooms)
	}
	all := store.Reservations()
	if len(all) != 1 || all[0].ID != "g-1" {
		t.Fatalf("unexpected reservations: %+v", all)
	}
	if r.IsLoading() {
		t.Fatalf("loading flag must clear after refresh")
	}
}

func TestRefresh_FailureClearsCollections(t *testing.T) {
	store := NewReservationStore(fixedClock{now: testNow})
	store.SetRooms([]models.CalendarRoom{{ID: "A"}})
	store.ReplaceAll([]models.CalendarReservation{{ID: "1"}})

	fetcher := &stubFetcher{replies: []stubReply{{err: errors.New("connection refused")}}}
	r := NewRefresher(fetcher, store, fixedClock{now: testNow})

	if err := r.Refresh(context.Background(), ViewMonth, testNow); err == nil {
		t.Fatalf("expected error from failed fetch")
	}

	if len(store.Rooms()) != 0 || len(store.Reservations()) != 0 {
		t.Fatalf("failed refresh must clear the collections")
	}
	if r.IsLoading() {
		t.Fatalf("loading flag must clear after a failed refresh")
	}
}

func TestRefresh_StaleResponseIsDiscarded(t *testing.T) {
	store := NewReservationStore(fixedClock{now: testNow})

	release := make(chan struct{})
	fetcher := &stubFetcher{replies: []stubReply{
		{payload: reservationPayload(t, "stale", "Viejo"), wait: release},
		{payload: reservationPayload(t, "fresh", "Nuevo")},
	}}
	r := NewRefresher(fetcher, store, fixedClock{now: testNow})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = r.Refresh(context.Background(), ViewMonth, testNow)
	}()

	// Wait until the first request is actually in flight, then issue the
	// second one, which completes immediately.
	for i := 0; i < 1000 && fetcher.callCount() == 0; i++ {
		time.Sleep(time.Millisecond)
	}
	if fetcher.callCount() == 0 {
		t.Fatalf("first refresh never reached the fetcher")
	}
	if err := r.Refresh(context.Background(), ViewMonth, testNow); err != nil {
		t.Fatalf("second Refresh: %v", err)
	}

	// Now let the first (superseded) response arrive.
	close(release)
	wg.Wait()

	all := store.Reservations()
	if len(all) != 1 || all[0].ID != "fresh" {
		t.Fatalf("most recently issued refresh must win, got %+v", all)
	}
	if r.IsLoading() {
		t.Fatalf("loading flag must clear once both refreshes finish")
	}
}

func TestRefreshRange(t *testing.T) {
	anchor := time.Date(2024, time.February, 15, 10, 0, 0, 0, time.UTC)

	start, end := RefreshRange(ViewMonth, anchor)
	if start.Day() != 1 || start.Month() != time.February {
		t.Fatalf("expected month start, got %v", start)
	}
	if end.Day() != 29 || end.Month() != time.February {
		t.Fatalf("expected leap February end, got %v", end)
	}

	start, end = RefreshRange(ViewYear, anchor)
	if start.Month() != time.January || start.Day() != 1 {
		t.Fatalf("expected Jan 1, got %v", start)
	}
	if end.Month() != time.December || end.Day() != 31 {
		t.Fatalf("expected Dec 31, got %v", end)
	}
}

func TestChartClient_FetchChart(t *testing.T) {
	var gotBody chartRequest
	var gotPath, gotMethod string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		gotMethod = req.Method
		body, _ := io.ReadAll(req.Body)
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Write(reservationPayload(t, "g-9", "Remota"))
	}))
	defer srv.Close()

	client := &ChartClient{BaseURL: srv.URL, BusinessUnit: "7", HTTPClient: srv.Client()}
	start := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)

	raw, err := client.FetchChart(context.Background(), start, end)
	if err != nil {
		t.Fatalf("FetchChart: %v", err)
	}

	if gotMethod != http.MethodPost || gotPath != "/api/dataChart" {
		t.Fatalf("expected POST /api/dataChart, got %s %s", gotMethod, gotPath)
	}
	if gotBody.StartDate != "02-01-2024" || gotBody.EndDate != "02-29-2024" {
		t.Fatalf("expected MM-dd-yyyy bounds, got %+v", gotBody)
	}
	if gotBody.IdBusinessUnit != "7" {
		t.Fatalf("expected business unit 7, got %q", gotBody.IdBusinessUnit)
	}

	data := Normalize(raw, testNow)
	if len(data.Reservations) != 1 || data.Reservations[0].ID != "g-9" {
		t.Fatalf("round trip through the normalizer failed: %+v", data)
	}
}

func TestChartClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := &ChartClient{BaseURL: srv.URL, BusinessUnit: "1", HTTPClient: srv.Client()}
	if _, err := client.FetchChart(context.Background(), time.Now(), time.Now()); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}
