package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Reservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RoomID *uint `gorm:"column:room_id;index" json:"roomId,omitempty"`

	ReservationCode string     `gorm:"column:reservation_code;size:64" json:"reservationCode,omitempty"`
	Status          string     `gorm:"column:status;size:64" json:"status,omitempty"`
	CheckIn         *time.Time `gorm:"column:check_in" json:"checkIn,omitempty"`
	CheckOut        *time.Time `gorm:"column:check_out" json:"checkOut,omitempty"`

	GuestName string `gorm:"column:guest_name;size:150" json:"guestName"`
	Phone     string `gorm:"size:40" json:"phone,omitempty"`
	Email     string `gorm:"size:150" json:"email,omitempty"`
	Notes     string `gorm:"type:text" json:"notes,omitempty"`

	// Extras keeps whatever untyped attributes the PMS attached to the
	// reservation (best-effort, never interpreted here).
	Extras datatypes.JSON `gorm:"column:extras" json:"extras,omitempty"`

	Room Room `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
}
