package services

import (
	"strconv"
	"time"

	"hotel-calendar/models"

	"gorm.io/gorm"
)

// FixtureService loads the seeded rooms and reservations from the database
// into the calendar shape. It is the boot-time data source; once a remote
// refresh succeeds, its output is replaced wholesale.
type FixtureService struct {
	DB *gorm.DB
}

func NewFixtureService(db *gorm.DB) *FixtureService {
	return &FixtureService{DB: db}
}

// Load reads all rooms and reservations and maps them onto the calendar
// collections, with the built-in status legend.
func (s *FixtureService) Load() (NormalizedData, error) {
	data := NormalizedData{
		Rooms:        []models.CalendarRoom{},
		Reservations: []models.CalendarReservation{},
		Statuses:     DefaultStatuses(),
	}

	var rooms []models.Room
	if err := s.DB.Preload("RoomType").Order("id").Find(&rooms).Error; err != nil {
		return data, err
	}

	keyByID := make(map[uint]string, len(rooms))
	for _, room := range rooms {
		keyByID[room.ID] = room.RoomKey

		back := room.BackgroundColor
		if back == "" {
			back = models.DefaultRoomColor
		}
		text := room.TextColor
		if text == "" {
			text = models.DefaultRoomTextColor
		}
		data.Rooms = append(data.Rooms, models.CalendarRoom{
			ID:              room.RoomKey,
			Name:            room.Name,
			Type:            room.RoomType.TypeName,
			BackgroundColor: back,
			TextColor:       text,
			Status:          ClassifyRoomStatus(room.ColorStatus),
			ColorStatus:     room.ColorStatus,
		})
	}

	var reservations []models.Reservation
	if err := s.DB.Order("id").Find(&reservations).Error; err != nil {
		return data, err
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), checkInHour, 0, 0, 0, now.Location())
	for _, r := range reservations {
		resource := ""
		if r.RoomID != nil {
			resource = keyByID[*r.RoomID]
		}

		start := today
		if r.CheckIn != nil {
			start = *r.CheckIn
		}
		end := today.AddDate(0, 0, 1)
		if r.CheckOut != nil {
			end = *r.CheckOut
		}

		data.Reservations = append(data.Reservations, models.CalendarReservation{
			ID:              strconv.FormatUint(uint64(r.ID), 10),
			Resource:        resource,
			Start:           start,
			End:             end,
			Text:            "Reserva - " + r.GuestName,
			Status:          r.Status,
			GuestName:       r.GuestName,
			Phone:           r.Phone,
			Email:           r.Email,
			Notes:           r.Notes,
			ReservationCode: r.ReservationCode,
		})
	}

	return data, nil
}
