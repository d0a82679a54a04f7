package models

import (
	"gorm.io/gorm"
)

type Room struct {
	gorm.Model

	// RoomTypeID is nullable so seed data without a resolved FK won't insert 0.
	RoomTypeID *uint  `json:"RoomTypeID,omitempty" gorm:"column:room_type_id"`
	RoomKey    string `json:"roomKey" gorm:"column:room_key;uniqueIndex;type:varchar(50)"`
	Name       string `json:"name" gorm:"type:varchar(100)"`

	BackgroundColor string `json:"backgroundColor" gorm:"column:background_color;type:varchar(20)"`
	TextColor       string `json:"textColor" gorm:"column:text_color;type:varchar(20)"`

	// ColorStatus is the free-text housekeeping status as the PMS reports it,
	// e.g. "Occupied Dirty - OD". The calendar layer classifies it.
	ColorStatus string `json:"colorStatus" gorm:"column:color_status;type:varchar(100)"`

	RoomType RoomType `gorm:"foreignKey:RoomTypeID"`
}
