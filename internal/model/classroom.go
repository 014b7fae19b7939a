package model

// Classroom 教室表（classrooms）
type Classroom struct {
	ClassroomID string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"classroom_id"`
	Name        string        `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	Type        ClassroomType `gorm:"type:varchar(20);not null"                      json:"type"`
	Capacity    *int          `gorm:"type:integer"                                   json:"capacity,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Classroom) TableName() string { return "classrooms" }
