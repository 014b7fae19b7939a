package model

// RecurringSchedule 每周固定课表（recurring_schedules）
// 同一教室同一星期内的记录两两不重叠（由 Service 层加锁校验）
type RecurringSchedule struct {
	ScheduleID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"        json:"schedule_id"`
	ClassroomID string `gorm:"type:uuid;not null;index:idx_rs_room_day,priority:1"   json:"classroom_id"`
	CourseID    string `gorm:"type:uuid;not null"                                    json:"course_id"`
	TeacherID   string `gorm:"type:uuid;not null;index:idx_rs_teacher_day,priority:1" json:"teacher_id"`
	GroupID     string `gorm:"type:uuid;not null;index"                              json:"group_id"`
	DayOfWeek   int    `gorm:"type:smallint;not null;index:idx_rs_room_day,priority:2;index:idx_rs_teacher_day,priority:2" json:"day_of_week"` // 1-7
	StartTime   string `gorm:"type:time;not null"                                    json:"start_time"`
	EndTime     string `gorm:"type:time;not null"                                    json:"end_time"`
	BaseModel

	// 关联（仅查询投影使用）
	Classroom *Classroom    `gorm:"foreignKey:ClassroomID;references:ClassroomID" json:"classroom,omitempty"`
	Course    *Course       `gorm:"foreignKey:CourseID;references:CourseID"       json:"course,omitempty"`
	Teacher   *User         `gorm:"foreignKey:TeacherID;references:UserID"        json:"teacher,omitempty"`
	Group     *StudentGroup `gorm:"foreignKey:GroupID;references:GroupID"         json:"group,omitempty"`
}

// TableName 指定表名
func (RecurringSchedule) TableName() string { return "recurring_schedules" }
