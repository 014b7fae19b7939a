package dto

// ── 课表模块 DTO ──

// UpsertScheduleRequest 新建 / 更新每周课表请求
type UpsertScheduleRequest struct {
	ClassroomID string `json:"classroom_id" binding:"required,uuid"`
	CourseID    string `json:"course_id"    binding:"required,uuid"`
	TeacherID   string `json:"teacher_id"   binding:"required,uuid"`
	GroupID     string `json:"group_id"     binding:"required,uuid"`
	DayOfWeek   int    `json:"day_of_week"  binding:"required,min=1,max=7"`
	StartTime   string `json:"start_time"   binding:"required,clock"`
	EndTime     string `json:"end_time"     binding:"required,clock"`
}

// ScheduleResponse 课表记录响应
type ScheduleResponse struct {
	ID          string `json:"id"`
	ClassroomID string `json:"classroom_id"`
	CourseID    string `json:"course_id"`
	TeacherID   string `json:"teacher_id"`
	GroupID     string `json:"group_id"`
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// ScheduleView 班级课表视图（附带各关联对象名称）
type ScheduleView struct {
	ID        string    `json:"id"`
	DayOfWeek int       `json:"day_of_week"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Classroom *NamedRef `json:"classroom,omitempty"`
	Course    *NamedRef `json:"course,omitempty"`
	Teacher   *NamedRef `json:"teacher,omitempty"`
	Group     *NamedRef `json:"group,omitempty"`
}
