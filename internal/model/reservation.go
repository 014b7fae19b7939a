package model

import (
	"time"

	"gorm.io/datatypes"
)

// Reservation 教室临时预约（reservations）
type Reservation struct {
	ReservationID   string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"       json:"reservation_id"`
	ClassroomID     string         `gorm:"type:uuid;not null;index:idx_res_room_date,priority:1" json:"classroom_id"`
	UserID          string         `gorm:"type:uuid;not null;index"                             json:"user_id"`
	Purpose         string         `gorm:"type:varchar(255);not null"                           json:"purpose"`
	Attendees       *int           `gorm:"type:integer"                                         json:"attendees,omitempty"`
	ReservationDate datatypes.Date `gorm:"not null;index:idx_res_room_date,priority:2"          json:"reservation_date"`
	StartTime       string         `gorm:"type:time;not null"                                   json:"start_time"`
	EndTime         string         `gorm:"type:time;not null"                                   json:"end_time"`
	Status          RequestStatus  `gorm:"type:varchar(20);not null;default:'pending'"          json:"status"`
	DecisionModel
	CreatedAt time.Time `gorm:"not null" json:"created_at"` // 决定冲突优先级，由 Service 写入
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// 关联
	Classroom *Classroom `gorm:"foreignKey:ClassroomID;references:ClassroomID" json:"classroom,omitempty"`
	User      *User      `gorm:"foreignKey:UserID;references:UserID"           json:"user,omitempty"`
}

// TableName 指定表名
func (Reservation) TableName() string { return "reservations" }

// Date 预约日期
func (r *Reservation) Date() time.Time { return time.Time(r.ReservationDate) }
