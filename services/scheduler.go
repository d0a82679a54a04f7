package services

import (
	"fmt"
	"time"

	"hotel-calendar/models"
)

const (
	eventDateLayout   = "2006-01-02T15:04:05"
	defaultEventColor = "#03a9f4"
)

// SchedulerResource is one room row in the widget configuration.
type SchedulerResource struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	TextColor       string `json:"textColor,omitempty"`
	Status          string `json:"status,omitempty"`
}

// SchedulerEvent is one reservation bar in the widget configuration.
type SchedulerEvent struct {
	ID        string `json:"id"`
	Resource  string `json:"resource"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Text      string `json:"text"`
	Status    string `json:"status,omitempty"`
	BackColor string `json:"backColor"`
	BarColor  string `json:"barColor"`
	TextColor string `json:"textColor,omitempty"`
	ToolTip   string `json:"toolTip,omitempty"`
}

// SchedulerConfig is the full declarative configuration for the scheduler
// widget: window, resources, events and highlight hints.
type SchedulerConfig struct {
	Window

	HeightSpec     string `json:"heightSpec"`
	RowHeaderWidth int    `json:"rowHeaderWidth"`

	Resources []SchedulerResource `json:"resources"`
	Events    []SchedulerEvent    `json:"events"`

	// WeekendDays lists the window's Saturdays and Sundays so the client
	// can shade those columns.
	WeekendDays []string `json:"weekendDays"`
}

// BuildSchedulerConfig projects the current collections onto the widget
// configuration for a view and anchor date. Pure, recomputed per request.
func BuildSchedulerConfig(view string, anchor time.Time, rooms []models.CalendarRoom, reservations []models.CalendarReservation, statuses map[string]models.StatusInfo) SchedulerConfig {
	window := ComputeWindow(view, anchor)

	cfg := SchedulerConfig{
		Window:         window,
		HeightSpec:     "Max",
		RowHeaderWidth: 150,
		Resources:      make([]SchedulerResource, 0, len(rooms)),
		Events:         make([]SchedulerEvent, 0, len(reservations)),
		WeekendDays:    weekendDays(window),
	}

	for _, room := range rooms {
		cfg.Resources = append(cfg.Resources, SchedulerResource{
			ID:              room.ID,
			Name:            roomDisplayText(room),
			BackgroundColor: room.BackgroundColor,
			TextColor:       room.TextColor,
			Status:          room.Status,
		})
	}

	for _, r := range reservations {
		cfg.Events = append(cfg.Events, buildEvent(r, statuses))
	}

	return cfg
}

func buildEvent(r models.CalendarReservation, statuses map[string]models.StatusInfo) SchedulerEvent {
	status, known := statuses[r.Status]

	// Reservation color wins, then the legend color, then the default.
	back := r.BackColor
	if back == "" {
		if known {
			back = status.Color
		} else {
			back = defaultEventColor
		}
	}
	bar := back
	if known && status.Color != "" {
		bar = status.Color
	}

	ev := SchedulerEvent{
		ID:        r.ID,
		Resource:  r.Resource,
		Start:     r.Start.Format(eventDateLayout),
		End:       r.End.Format(eventDateLayout),
		Text:      r.Text,
		Status:    r.Status,
		BackColor: back,
		BarColor:  bar,
		TextColor: r.TextColor,
	}
	if known {
		ev.ToolTip = fmt.Sprintf("%s (%s)", r.Text, status.Text)
	}
	return ev
}

// roomDisplayText renders the row header as "{name} - {type}".
func roomDisplayText(room models.CalendarRoom) string {
	name := room.Name
	if name == "" {
		name = "Room " + room.ID
	}
	typ := room.Type
	if typ == "" {
		typ = room.OriginalType
	}
	if typ == "" {
		return name
	}
	return fmt.Sprintf("%s - %s", name, typ)
}

func weekendDays(w Window) []string {
	out := []string{}
	for i := 0; i < w.DaySpan; i++ {
		day := w.DisplayStart.AddDate(0, 0, i)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			out = append(out, day.Format(startDateLayout))
		}
	}
	return out
}
