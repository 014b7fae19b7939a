package model

import (
	"time"

	"gorm.io/datatypes"
)

// TeacherMeetingRequest 学生约见教师申请（teacher_meeting_requests）
type TeacherMeetingRequest struct {
	MeetingID   string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"          json:"meeting_id"`
	TeacherID   string         `gorm:"type:uuid;not null;index:idx_mtg_teacher_date,priority:1" json:"teacher_id"`
	StudentID   string         `gorm:"type:uuid;not null;index"                                json:"student_id"`
	MeetingDate datatypes.Date `gorm:"not null;index:idx_mtg_teacher_date,priority:2"          json:"meeting_date"`
	StartTime   string         `gorm:"type:time;not null"                                      json:"start_time"`
	EndTime     string         `gorm:"type:time;not null"                                      json:"end_time"`
	Purpose     string         `gorm:"type:varchar(255);not null"                              json:"purpose"`
	Status      RequestStatus  `gorm:"type:varchar(20);not null;default:'pending'"             json:"status"`
	DecisionModel
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// 关联
	Teacher *User `gorm:"foreignKey:TeacherID;references:UserID" json:"teacher,omitempty"`
	Student *User `gorm:"foreignKey:StudentID;references:UserID" json:"student,omitempty"`
}

// TableName 指定表名
func (TeacherMeetingRequest) TableName() string { return "teacher_meeting_requests" }

// Date 约见日期
func (m *TeacherMeetingRequest) Date() time.Time { return time.Time(m.MeetingDate) }
