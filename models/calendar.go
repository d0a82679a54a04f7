package models

import "time"

// Default colors applied when the PMS omits them.
const (
	DefaultRoomColor            = "#9e9e9e"
	DefaultRoomTextColor        = "#ffffff"
	DefaultReservationColor     = "#99ccff"
	DefaultReservationTextColor = "#003366"
)

// CalendarRoom is one resource row on the scheduler grid.
type CalendarRoom struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Type            string `json:"type"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	Status          string `json:"status"`

	// OriginalType and ColorStatus keep the raw PMS values for display.
	OriginalType string `json:"originalRoomType,omitempty"`
	ColorStatus  string `json:"roomColorStatus,omitempty"`
}

// CalendarReservation is one booking bar on the grid. IDs are strings:
// remote reservations carry the PMS GUID, locally created ones get the
// next numeric id as text.
type CalendarReservation struct {
	ID       string    `json:"id"`
	Resource string    `json:"resource"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Text     string    `json:"text"`
	Status   string    `json:"status"`

	BackColor string `json:"backColor"`
	TextColor string `json:"textColor"`

	GuestName       string `json:"guestName,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Email           string `json:"email,omitempty"`
	Notes           string `json:"notes,omitempty"`
	ReservationCode string `json:"reservationCode,omitempty"`
}

// FormData is the transient staging copy of a reservation edited through
// the modal. Committed to the collection only on save.
type FormData struct {
	ID              string    `json:"id"`
	Resource        string    `json:"resource"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	Text            string    `json:"text"`
	Status          string    `json:"status"`
	GuestName       string    `json:"guestName"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email"`
	Notes           string    `json:"notes"`
	ReservationCode string    `json:"reservationCode"`
}

// StatusInfo is one entry of the status legend.
type StatusInfo struct {
	Text      string `json:"text"`
	Color     string `json:"color"`
	TextColor string `json:"textColor,omitempty"`
}
