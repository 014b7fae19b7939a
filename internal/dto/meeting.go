package dto

// ── 教师约见模块 DTO ──

// AvailabilityRequest 教师空闲查询参数
type AvailabilityRequest struct {
	Date      string `form:"date"       binding:"required,datetime=2006-01-02"`
	StartTime string `form:"start_time" binding:"required,clock"`
	EndTime   string `form:"end_time"   binding:"required,clock"`
}

// AvailabilityResponse 教师空闲查询结果
type AvailabilityResponse struct {
	Available            bool              `json:"available"`
	ConflictingSchedules []ConflictingSlot `json:"conflicting_schedules"`
	ConflictingMeetings  []ConflictingSlot `json:"conflicting_meetings"`
}

// ConflictingSlot 冲突的课表或约见
type ConflictingSlot struct {
	ID        string `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// CreateMeetingRequest 学生发起约见请求
type CreateMeetingRequest struct {
	TeacherID   string `json:"teacher_id"   binding:"required,uuid"`
	MeetingDate string `json:"meeting_date" binding:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time"   binding:"required,clock"`
	EndTime     string `json:"end_time"     binding:"required,clock"`
	Purpose     string `json:"purpose"      binding:"required,min=1,max=255"`
}

// MeetingListRequest 约见列表查询参数
type MeetingListRequest struct {
	PaginationRequest
	TeacherID string `form:"teacher_id" binding:"omitempty,uuid"`
	StudentID string `form:"student_id" binding:"omitempty,uuid"`
	Status    string `form:"status"     binding:"omitempty,oneof=pending approved rejected"`
}

// MeetingResponse 约见响应
type MeetingResponse struct {
	ID           string  `json:"id"`
	TeacherID    string  `json:"teacher_id"`
	StudentID    string  `json:"student_id"`
	MeetingDate  string  `json:"meeting_date"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	Purpose      string  `json:"purpose"`
	Status       string  `json:"status"`
	DecidedBy    *string `json:"decided_by,omitempty"`
	DecidedAt    *string `json:"decided_at,omitempty"`
	RejectReason *string `json:"reject_reason,omitempty"`
	CreatedAt    string  `json:"created_at"`
}
