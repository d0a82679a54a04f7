package services

import (
	"encoding/json"
	"testing"
	"time"
)

var testNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func chartPayload(t *testing.T, rooms, reservations []map[string]interface{}) []byte {
	t.Helper()
	body := []interface{}{
		map[string]interface{}{
			"JSONData": []interface{}{
				map[string]interface{}{
					"rooms":     map[string]interface{}{"rooms": rooms},
					"dataChart": map[string]interface{}{"dataChart": reservations},
				},
			},
		},
	}
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return raw
}

func TestNormalize_MissingPathsYieldEmptyCollections(t *testing.T) {
	cases := [][]byte{
		[]byte(`[]`),
		[]byte(`[{}]`),
		[]byte(`[{"JSONData":[{}]}]`),
		[]byte(`[{"JSONData":[{"rooms":{}}]}]`),
		[]byte(`{"unexpected":true}`),
		[]byte(`not json at all`),
	}
	for _, raw := range cases {
		got := Normalize(raw, testNow)
		if got.Rooms == nil || got.Reservations == nil || got.Statuses == nil {
			t.Fatalf("%s: collections must be non-nil", raw)
		}
		if len(got.Rooms) != 0 || len(got.Reservations) != 0 || len(got.Statuses) != 0 {
			t.Fatalf("%s: expected empty result, got %+v", raw, got)
		}
	}
}

func TestNormalize_DoubleEncodedJSONData(t *testing.T) {
	inner := map[string]interface{}{
		"rooms": map[string]interface{}{"rooms": []interface{}{
			map[string]interface{}{"id": 101, "text": "Habitación 101", "roomType": "TR2"},
		}},
	}
	innerRaw, err := json.Marshal([]interface{}{inner})
	if err != nil {
		t.Fatalf("marshal inner: %v", err)
	}
	outer, err := json.Marshal([]interface{}{
		map[string]interface{}{"JSONData": string(innerRaw)},
	})
	if err != nil {
		t.Fatalf("marshal outer: %v", err)
	}

	got := Normalize(outer, testNow)
	if len(got.Rooms) != 1 {
		t.Fatalf("expected 1 room from double-encoded payload, got %d", len(got.Rooms))
	}
	if got.Rooms[0].ID != "101" || got.Rooms[0].Type != "Deluxe" {
		t.Fatalf("unexpected room: %+v", got.Rooms[0])
	}
}

func TestNormalize_RoomMapping(t *testing.T) {
	raw := chartPayload(t, []map[string]interface{}{
		{
			"id":              7,
			"text":            "Habitación 301",
			"roomType":        "SUI",
			"backgroundColor": "#4caf50",
			"color":           "#ffffff",
			"roomColorStatus": "Vacant Clean - VC",
		},
		{
			"id":       "8",
			"text":     "Habitación 302",
			"roomType": "ZK9",
		},
	}, nil)

	got := Normalize(raw, testNow)
	if len(got.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(got.Rooms))
	}

	first := got.Rooms[0]
	if first.ID != "7" || first.Type != "Suite" || first.Status != "vacant_clean" {
		t.Fatalf("unexpected first room: %+v", first)
	}

	second := got.Rooms[1]
	if second.Type != "ZK9" {
		t.Fatalf("unknown room type must pass through, got %q", second.Type)
	}
	if second.BackgroundColor == "" || second.TextColor == "" {
		t.Fatalf("missing colors must default, got %+v", second)
	}
	if second.Status != "available" {
		t.Fatalf("missing status must default to available, got %q", second.Status)
	}
}

func TestNormalize_LegacyDateFieldsMatchPrimary(t *testing.T) {
	primary := chartPayload(t, nil, []map[string]interface{}{
		{"GUID": "g-1", "suitedId": 3, "startDate": "2024-03-01T15:00:00", "endDate": "2024-03-04T15:00:00", "text": "Ana"},
	})
	legacy := chartPayload(t, nil, []map[string]interface{}{
		{"GUID": "g-1", "IdRoom": 3, "ArrivalDate": "2024-03-01T15:00:00", "DepartureDate": "2024-03-04T15:00:00", "text": "Ana"},
	})

	a := Normalize(primary, testNow)
	b := Normalize(legacy, testNow)
	if len(a.Reservations) != 1 || len(b.Reservations) != 1 {
		t.Fatalf("expected one reservation each, got %d and %d", len(a.Reservations), len(b.Reservations))
	}
	ra, rb := a.Reservations[0], b.Reservations[0]
	if !ra.Start.Equal(rb.Start) || !ra.End.Equal(rb.End) || ra.Resource != rb.Resource || ra.ID != rb.ID {
		t.Fatalf("legacy fields must normalize identically:\n%+v\n%+v", ra, rb)
	}
}

func TestNormalize_BadDatesFallBackToPlaceholders(t *testing.T) {
	raw := chartPayload(t, nil, []map[string]interface{}{
		{"GUID": "g-2", "startDate": "definitely-not-a-date"},
		{"GUID": "g-3"},
	})

	got := Normalize(raw, testNow)
	if len(got.Reservations) != 2 {
		t.Fatalf("bad dates must not drop records, got %d", len(got.Reservations))
	}

	today := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	for _, r := range got.Reservations {
		if !r.Start.Equal(today) {
			t.Fatalf("expected placeholder start %v, got %v", today, r.Start)
		}
		if !r.End.Equal(today.AddDate(0, 0, 1)) {
			t.Fatalf("expected placeholder end, got %v", r.End)
		}
	}
}

func TestNormalize_PlaceholderDatesPinnedToUTC(t *testing.T) {
	// The PMS layouts carry no zone, so parsed dates are UTC. Placeholders
	// must land in the same location even when the clock runs elsewhere.
	madrid := time.FixedZone("CET", 3600)
	localNow := time.Date(2024, time.March, 10, 12, 0, 0, 0, madrid)

	raw := chartPayload(t, nil, []map[string]interface{}{
		{"GUID": "g-parsed", "startDate": "2024-03-05T15:00:00", "endDate": "2024-03-06T15:00:00"},
		{"GUID": "g-fallback"},
	})

	got := Normalize(raw, localNow)
	for _, r := range got.Reservations {
		if r.Start.Location() != time.UTC || r.End.Location() != time.UTC {
			t.Fatalf("%s: dates must be UTC, got %v / %v", r.ID, r.Start.Location(), r.End.Location())
		}
	}
	wantToday := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	if fb := got.Reservations[1]; !fb.Start.Equal(wantToday) || !fb.End.Equal(wantToday.AddDate(0, 0, 1)) {
		t.Fatalf("expected UTC placeholders for the clock's wall date, got %v / %v", fb.Start, fb.End)
	}
}

func TestNormalize_ReservationIDFallbacks(t *testing.T) {
	raw := chartPayload(t, nil, []map[string]interface{}{
		{"GUID": "abc-123"},
		{"text": "sin guid"},
	})

	got := Normalize(raw, testNow)
	if got.Reservations[0].ID != "abc-123" {
		t.Fatalf("expected GUID id, got %q", got.Reservations[0].ID)
	}
	if got.Reservations[1].ID != "res_1" {
		t.Fatalf("expected positional fallback res_1, got %q", got.Reservations[1].ID)
	}
}

func TestNormalize_ReservationDefaults(t *testing.T) {
	raw := chartPayload(t, nil, []map[string]interface{}{
		{"GUID": "g-4", "ReservationCode": "RC-77"},
	})

	r := Normalize(raw, testNow).Reservations[0]
	if r.Text != "Reserva RC-77" {
		t.Fatalf("expected derived label, got %q", r.Text)
	}
	if r.Status != "confirmed" {
		t.Fatalf("expected confirmed default, got %q", r.Status)
	}
	if r.BackColor != "#99ccff" || r.TextColor != "#003366" {
		t.Fatalf("expected default colors, got %+v", r)
	}
}

func TestNormalize_StatusLegendLastWriteWins(t *testing.T) {
	raw := chartPayload(t, []map[string]interface{}{
		{"id": 1, "roomColorStatus": "Occupied Dirty - OD", "backgroundColor": "#111111"},
		{"id": 2, "roomColorStatus": "Occupied Dirty - OD", "backgroundColor": "#222222"},
	}, nil)

	got := Normalize(raw, testNow)
	entry, ok := got.Statuses["occupied_dirty"]
	if !ok {
		t.Fatalf("expected occupied_dirty legend entry, got %v", got.Statuses)
	}
	if entry.Color != "#222222" {
		t.Fatalf("expected last room's color, got %q", entry.Color)
	}
}

func TestClassifyRoomStatus(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Occupied Clean - OC", "occupied_clean"},
		{"Occupied Dirty - OD", "occupied_dirty"},
		{"Vacant Clean - VC", "vacant_clean"},
		{"Vacant Dirty - VD", "vacant_dirty"},
		{"Under Maintenance", "maintenance"},
		{"MT", "maintenance"},
		{"Out of Order - OOO", "out_of_order"},
		{"gibberish", "available"},
		{"", "available"},
	}
	for _, tc := range cases {
		if got := ClassifyRoomStatus(tc.in); got != tc.want {
			t.Fatalf("ClassifyRoomStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMapRoomType(t *testing.T) {
	cases := map[string]string{
		"TR1": "Estándar",
		"TR2": "Deluxe",
		"TR3": "Suite",
		"STD": "Estándar",
		"DEL": "Deluxe",
		"SUI": "Suite",
		"XYZ": "XYZ",
	}
	for in, want := range cases {
		if got := MapRoomType(in); got != want {
			t.Fatalf("MapRoomType(%q) = %q, want %q", in, got, want)
		}
	}
}
