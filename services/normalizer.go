package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"hotel-calendar/models"
)

// NormalizedData is the uniform shape the calendar works with, produced
// from the PMS chart payload.
type NormalizedData struct {
	Rooms        []models.CalendarRoom        `json:"rooms"`
	Reservations []models.CalendarReservation `json:"reservations"`
	Statuses     map[string]models.StatusInfo `json:"statuses"`
}

// roomTypeNames maps PMS room-type codes to display categories. Unknown
// codes pass through verbatim.
var roomTypeNames = map[string]string{
	"TR1": "Estándar",
	"TR2": "Deluxe",
	"TR3": "Suite",
	"SUI": "Suite",
	"DEL": "Deluxe",
	"STD": "Estándar",
}

// statusKeywords classifies the free-text housekeeping status. Checked in
// order, first match wins. Dirty variants come first: "occupied dirty"
// contains the "oc" abbreviation, so checking clean first would
// misclassify it.
var statusKeywords = []struct {
	key      string
	keywords []string
}{
	{"occupied_dirty", []string{"occupied dirty", "od"}},
	{"occupied_clean", []string{"occupied clean", "oc"}},
	{"vacant_dirty", []string{"vacant dirty", "vd"}},
	{"vacant_clean", []string{"vacant clean", "vc"}},
	{"maintenance", []string{"maintenance", "mt"}},
	{"out_of_order", []string{"out of order", "ooo"}},
}

// Accepted PMS date formats, tried in order.
var reservationDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"01-02-2006",
}

// Normalize reshapes the raw chart payload into rooms, reservations and a
// status legend. The payload is loosely typed and may arrive wrapped in an
// array, under a JSONData field, or double-encoded as a JSON string; any
// missing piece yields empty collections rather than an error. now supplies
// the placeholder dates for unparseable reservations.
func Normalize(raw []byte, now time.Time) NormalizedData {
	out := NormalizedData{
		Rooms:        []models.CalendarRoom{},
		Reservations: []models.CalendarReservation{},
		Statuses:     map[string]models.StatusInfo{},
	}

	body, ok := unwrapPayload(raw)
	if !ok {
		return out
	}

	roomsRaw := digSlice(body, "rooms", "rooms")
	chartRaw := digSlice(body, "dataChart", "dataChart")

	for _, rr := range roomsRaw {
		m, ok := rr.(map[string]interface{})
		if !ok {
			continue
		}
		room := normalizeRoom(m)
		out.Rooms = append(out.Rooms, room)

		// Legend entry per derived status, last write wins.
		display := room.ColorStatus
		if display == "" {
			display = room.Status
		}
		out.Statuses[room.Status] = models.StatusInfo{
			Text:      display,
			Color:     room.BackgroundColor,
			TextColor: room.TextColor,
		}
	}

	for i, cr := range chartRaw {
		m, ok := cr.(map[string]interface{})
		if !ok {
			continue
		}
		out.Reservations = append(out.Reservations, normalizeReservation(m, i, now))
	}

	return out
}

// ClassifyRoomStatus maps a free-text housekeeping status onto the fixed
// category set. Matching is case-insensitive substring, defaulting to
// "available".
func ClassifyRoomStatus(colorStatus string) string {
	s := strings.ToLower(colorStatus)
	if s == "" {
		return "available"
	}
	for _, entry := range statusKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(s, kw) {
				return entry.key
			}
		}
	}
	return "available"
}

// MapRoomType resolves a PMS room-type code to its display category.
func MapRoomType(code string) string {
	if name, ok := roomTypeNames[code]; ok {
		return name
	}
	return code
}

// unwrapPayload digs through the envelope variants down to the object that
// carries the rooms and dataChart fields.
func unwrapPayload(raw []byte) (map[string]interface{}, bool) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}

	// Peel up to a few layers: top-level array, JSONData wrapper, and
	// string-encoded JSON bodies.
	for depth := 0; depth < 6; depth++ {
		switch t := v.(type) {
		case []interface{}:
			if len(t) == 0 {
				return nil, false
			}
			v = t[0]
		case string:
			var inner interface{}
			if err := json.Unmarshal([]byte(t), &inner); err != nil {
				return nil, false
			}
			v = inner
		case map[string]interface{}:
			if wrapped, ok := t["JSONData"]; ok {
				v = wrapped
				continue
			}
			return t, true
		default:
			return nil, false
		}
	}
	return nil, false
}

func normalizeRoom(m map[string]interface{}) models.CalendarRoom {
	colorStatus := stringField(m, "roomColorStatus")
	typeCode := stringField(m, "roomType")

	back := stringField(m, "backgroundColor")
	if back == "" {
		back = models.DefaultRoomColor
	}
	text := stringField(m, "color")
	if text == "" {
		text = models.DefaultRoomTextColor
	}

	return models.CalendarRoom{
		ID:              stringField(m, "id"),
		Name:            stringField(m, "text"),
		Type:            MapRoomType(typeCode),
		BackgroundColor: back,
		TextColor:       text,
		Status:          ClassifyRoomStatus(colorStatus),
		OriginalType:    typeCode,
		ColorStatus:     colorStatus,
	}
}

// normalizeReservation maps one chart record at its batch position; a
// missing GUID falls back to the positional id.
func normalizeReservation(m map[string]interface{}, index int, now time.Time) models.CalendarReservation {
	id := stringField(m, "GUID")
	if id == "" {
		id = fmt.Sprintf("res_%d", index)
	}

	// Pinned to UTC: the date layouts carry no zone, so parsed values are
	// UTC and the placeholders must match.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := parseReservationDate(stringField(m, "startDate", "ArrivalDate"), today)
	end := parseReservationDate(stringField(m, "endDate", "DepartureDate"), today.AddDate(0, 0, 1))

	code := stringField(m, "ReservationCode")
	text := stringField(m, "text")
	if text == "" {
		text = fmt.Sprintf("Reserva %s", code)
	}

	status := stringField(m, "reservationStatus")
	if status == "" {
		status = "confirmed"
	}
	back := stringField(m, "reservationColor")
	if back == "" {
		back = models.DefaultReservationColor
	}
	textColor := stringField(m, "reservationTextColor")
	if textColor == "" {
		textColor = models.DefaultReservationTextColor
	}

	return models.CalendarReservation{
		ID:              id,
		Resource:        stringField(m, "suitedId", "IdRoom"),
		Start:           start,
		End:             end,
		Text:            text,
		Status:          status,
		BackColor:       back,
		TextColor:       textColor,
		GuestName:       stringField(m, "text"),
		ReservationCode: code,
	}
}

// parseReservationDate tries the known PMS layouts; anything unparseable
// falls back to the given placeholder so one bad record never aborts the
// batch.
func parseReservationDate(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	for _, layout := range reservationDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return fallback
}

// stringField returns the first non-empty value among the given keys,
// rendered as a trimmed string. Numbers come back without a decimal tail.
func stringField(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case float64:
			if t == float64(int64(t)) {
				return fmt.Sprintf("%d", int64(t))
			}
			return fmt.Sprintf("%v", t)
		default:
			if s := strings.TrimSpace(fmt.Sprintf("%v", t)); s != "" {
				return s
			}
		}
	}
	return ""
}

// digSlice walks nested maps along path and returns the slice at the end,
// or nil when any hop is missing.
func digSlice(m map[string]interface{}, path ...string) []interface{} {
	var cur interface{} = m
	for _, key := range path {
		mm, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur, ok = mm[key]
		if !ok {
			return nil
		}
	}
	s, _ := cur.([]interface{})
	return s
}
