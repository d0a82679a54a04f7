package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"hotel-calendar/models"

	"github.com/google/uuid"
)

// Clock abstracts time.Now for tests.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Modal modes.
const (
	ModalClosed = "closed"
	ModalNew    = "new"
	ModalEdit   = "edit"
	ModalView   = "view"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrModalClosed         = errors.New("modal is not open")
	ErrModalOpen           = errors.New("modal already open")
	ErrReadOnlyModal       = errors.New("modal is read-only")
	ErrUnknownField        = errors.New("unknown form field")
)

// Check-in/check-out hour applied to new reservations and to dates edited
// through the form.
const checkInHour = 15

// DefaultStatuses is the legend used until a remote refresh supplies one.
func DefaultStatuses() map[string]models.StatusInfo {
	return map[string]models.StatusInfo{
		"occupied":    {Text: "Ocupada", Color: "#f44336"},
		"vacant":      {Text: "Vacante", Color: "#4caf50"},
		"clean":       {Text: "Limpia", Color: "#2196f3"},
		"dirty":       {Text: "Sucia", Color: "#ffeb3b"},
		"maintenance": {Text: "En mantenimiento", Color: "#9e9e9e"},
	}
}

// ReservationStore owns the in-memory reservation and room collections,
// the current selection and the modal form buffer. All access goes through
// its methods; readers get copies.
type ReservationStore struct {
	mu    sync.RWMutex
	clock Clock

	rooms        []models.CalendarRoom
	reservations []models.CalendarReservation
	statuses     map[string]models.StatusInfo

	selected *models.CalendarReservation
	form     models.FormData
	mode     string
}

func NewReservationStore(clock Clock) *ReservationStore {
	if clock == nil {
		clock = RealClock{}
	}
	s := &ReservationStore{
		clock:        clock,
		rooms:        []models.CalendarRoom{},
		reservations: []models.CalendarReservation{},
		statuses:     DefaultStatuses(),
		mode:         ModalClosed,
	}
	s.form = s.blankForm()
	return s
}

// ---------------------------
// Read accessors
// ---------------------------

func (s *ReservationStore) Rooms() []models.CalendarRoom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CalendarRoom, len(s.rooms))
	copy(out, s.rooms)
	return out
}

func (s *ReservationStore) Reservations() []models.CalendarReservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CalendarReservation, len(s.reservations))
	copy(out, s.reservations)
	return out
}

func (s *ReservationStore) Statuses() map[string]models.StatusInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.StatusInfo, len(s.statuses))
	for k, v := range s.statuses {
		out[k] = v
	}
	return out
}

// Selected returns the reservation marked by the last click, if any.
func (s *ReservationStore) Selected() (models.CalendarReservation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return models.CalendarReservation{}, false
	}
	return *s.selected, true
}

func (s *ReservationStore) Mode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

func (s *ReservationStore) Form() models.FormData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.form
}

// ---------------------------
// Modal lifecycle
// ---------------------------

// OpenCreate resets the form buffer to a blank template and opens the
// modal in "new" mode.
func (s *ReservationStore) OpenCreate() (models.FormData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModalClosed {
		return models.FormData{}, ErrModalOpen
	}
	s.form = s.blankForm()
	s.mode = ModalNew
	return s.form, nil
}

// OpenEdit copies the reservation into the form buffer and opens the modal
// in "edit" mode.
func (s *ReservationStore) OpenEdit(id string) (models.FormData, error) {
	return s.openWith(id, ModalEdit)
}

// OpenView is OpenEdit without the subsequent right to save.
func (s *ReservationStore) OpenView(id string) (models.FormData, error) {
	return s.openWith(id, ModalView)
}

func (s *ReservationStore) openWith(id, mode string) (models.FormData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != ModalClosed {
		return models.FormData{}, ErrModalOpen
	}
	idx := s.indexOf(id)
	if idx < 0 {
		return models.FormData{}, ErrReservationNotFound
	}
	r := s.reservations[idx]
	s.form = models.FormData{
		ID:              r.ID,
		Resource:        r.Resource,
		Start:           r.Start,
		End:             r.End,
		Text:            r.Text,
		Status:          r.Status,
		GuestName:       r.GuestName,
		Phone:           r.Phone,
		Email:           r.Email,
		Notes:           r.Notes,
		ReservationCode: r.ReservationCode,
	}
	s.mode = mode
	return s.form, nil
}

// CloseModal closes the modal and resets selection and form buffer.
func (s *ReservationStore) CloseModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *ReservationStore) closeLocked() {
	s.mode = ModalClosed
	s.selected = nil
	s.form = s.blankForm()
}

// UpdateField patches one form buffer field. Editing the guest name also
// recomputes the derived event label.
func (s *ReservationStore) UpdateField(field, value string) (models.FormData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModalClosed {
		return models.FormData{}, ErrModalClosed
	}

	switch field {
	case "guestName":
		s.form.GuestName = value
		s.form.Text = "Reserva - " + value
	case "phone":
		s.form.Phone = value
	case "email":
		s.form.Email = value
	case "notes":
		s.form.Notes = value
	case "status":
		s.form.Status = value
	case "resource":
		s.form.Resource = value
	case "reservationCode":
		s.form.ReservationCode = value
	case "text":
		s.form.Text = value
	case "start":
		t, err := parseFormDate(value)
		if err != nil {
			return models.FormData{}, err
		}
		s.form.Start = t
	case "end":
		t, err := parseFormDate(value)
		if err != nil {
			return models.FormData{}, err
		}
		s.form.End = t
	default:
		return models.FormData{}, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return s.form, nil
}

// Save commits the form buffer: in "new" mode it assigns the next numeric
// id (and a generated reservation code if the form left it blank) and
// appends, in "edit" mode it replaces the entry with the same id. A modal
// opened in "view" mode can never save. The modal closes on success.
func (s *ReservationStore) Save() (models.CalendarReservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.mode {
	case ModalNew:
		r := s.reservationFromForm()
		r.ID = strconv.Itoa(s.nextNumericID())
		if r.ReservationCode == "" {
			r.ReservationCode = uuid.NewString()
		}
		s.reservations = append(s.reservations, r)
		s.closeLocked()
		return r, nil
	case ModalEdit:
		idx := s.indexOf(s.form.ID)
		if idx < 0 {
			return models.CalendarReservation{}, ErrReservationNotFound
		}
		r := s.reservationFromForm()
		r.ID = s.form.ID
		// Rendering colors are not form fields, keep whatever the entry had.
		r.BackColor = s.reservations[idx].BackColor
		r.TextColor = s.reservations[idx].TextColor
		s.reservations[idx] = r
		s.closeLocked()
		return r, nil
	case ModalView:
		return models.CalendarReservation{}, ErrReadOnlyModal
	default:
		return models.CalendarReservation{}, ErrModalClosed
	}
}

// ---------------------------
// Grid interactions
// ---------------------------

// SelectFromClick marks the clicked reservation as selected. Unknown ids
// are ignored.
func (s *ReservationStore) SelectFromClick(id string) (models.CalendarReservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return models.CalendarReservation{}, false
	}
	r := s.reservations[idx]
	s.selected = &r
	return r, true
}

// ApplyMove patches start, end and resource on the matching reservation.
// Unknown ids are a no-op.
func (s *ReservationStore) ApplyMove(id string, start, end time.Time, resource string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.reservations[idx].Start = start
	s.reservations[idx].End = end
	s.reservations[idx].Resource = resource
	return true
}

// ApplyResize patches start and end only.
func (s *ReservationStore) ApplyResize(id string, start, end time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.reservations[idx].Start = start
	s.reservations[idx].End = end
	return true
}

// ---------------------------
// Collection replacement
// ---------------------------

// ReplaceAll swaps the reservation collection wholesale, as after a remote
// refresh. Local edits against stale data are discarded, not merged.
func (s *ReservationStore) ReplaceAll(reservations []models.CalendarReservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reservations == nil {
		reservations = []models.CalendarReservation{}
	}
	s.reservations = reservations
	s.selected = nil
}

func (s *ReservationStore) SetRooms(rooms []models.CalendarRoom) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rooms == nil {
		rooms = []models.CalendarRoom{}
	}
	s.rooms = rooms
}

func (s *ReservationStore) SetStatuses(statuses map[string]models.StatusInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(statuses) == 0 {
		return
	}
	s.statuses = statuses
}

// ApplyNormalized publishes a normalizer result into the store.
func (s *ReservationStore) ApplyNormalized(data NormalizedData) {
	s.SetRooms(data.Rooms)
	s.SetStatuses(data.Statuses)
	s.ReplaceAll(data.Reservations)
}

// Clear empties rooms and reservations, the fail-safe state after a failed
// refresh.
func (s *ReservationStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = []models.CalendarRoom{}
	s.reservations = []models.CalendarReservation{}
	s.selected = nil
}

// ---------------------------
// Internals (callers hold the lock)
// ---------------------------

func (s *ReservationStore) indexOf(id string) int {
	for i := range s.reservations {
		if s.reservations[i].ID == id {
			return i
		}
	}
	return -1
}

// blankForm is the template for a new reservation: first room, check-in
// today at 15:00, check-out tomorrow at 15:00.
func (s *ReservationStore) blankForm() models.FormData {
	resource := "A"
	if len(s.rooms) > 0 {
		resource = s.rooms[0].ID
	}
	now := s.clock.Now()
	checkIn := time.Date(now.Year(), now.Month(), now.Day(), checkInHour, 0, 0, 0, now.Location())
	return models.FormData{
		Resource: resource,
		Start:    checkIn,
		End:      checkIn.AddDate(0, 0, 1),
		Status:   "occupied",
	}
}

func (s *ReservationStore) reservationFromForm() models.CalendarReservation {
	return models.CalendarReservation{
		Resource:        s.form.Resource,
		Start:           s.form.Start,
		End:             s.form.End,
		Text:            "Reserva - " + s.form.GuestName,
		Status:          s.form.Status,
		GuestName:       s.form.GuestName,
		Phone:           s.form.Phone,
		Email:           s.form.Email,
		Notes:           s.form.Notes,
		ReservationCode: s.form.ReservationCode,
	}
}

// nextNumericID is max over the ids that parse as integers, plus one.
// Non-numeric ids (PMS GUIDs) are skipped.
func (s *ReservationStore) nextNumericID() int {
	max := 0
	for _, r := range s.reservations {
		if n, err := strconv.Atoi(r.ID); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}

// parseFormDate accepts the date-only value the form's date input sends,
// pinning the time to the check-in hour, or a full timestamp.
func parseFormDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.Add(checkInHour * time.Hour), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}
