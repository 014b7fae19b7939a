package dto

// ── 预约模块 DTO ──

// CreateReservationRequest 创建教室预约请求
type CreateReservationRequest struct {
	ClassroomID     string `json:"classroom_id"     binding:"required,uuid"`
	Purpose         string `json:"purpose"          binding:"required,min=1,max=255"`
	Attendees       *int   `json:"attendees"        binding:"omitempty,min=1,max=2000"`
	ReservationDate string `json:"reservation_date" binding:"required,datetime=2006-01-02"`
	StartTime       string `json:"start_time"       binding:"required,clock"`
	EndTime         string `json:"end_time"         binding:"required,clock"`
}

// UpdateStatusRequest 审批请求（预约与约见共用）
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
	Reason string `json:"reason" binding:"omitempty,max=255"`
}

// ReservationListRequest 预约列表查询参数
type ReservationListRequest struct {
	PaginationRequest
	ClassroomID string `form:"classroom_id" binding:"omitempty,uuid"`
	UserID      string `form:"user_id"      binding:"omitempty,uuid"`
	Status      string `form:"status"       binding:"omitempty,oneof=pending approved rejected"`
	Date        string `form:"date"         binding:"omitempty,datetime=2006-01-02"`
}

// ConflictQuery 冲突列表查询参数
type ConflictQuery struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

// ReservationResponse 预约响应
type ReservationResponse struct {
	ID              string  `json:"id"`
	ClassroomID     string  `json:"classroom_id"`
	UserID          string  `json:"user_id"`
	Purpose         string  `json:"purpose"`
	Attendees       *int    `json:"attendees,omitempty"`
	ReservationDate string  `json:"reservation_date"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	Status          string  `json:"status"`
	DecidedBy       *string `json:"decided_by,omitempty"`
	DecidedAt       *string `json:"decided_at,omitempty"`
	RejectReason    *string `json:"reject_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// ReservationStatusResponse 审批结果，AutoRejected 为批准时被连带拒绝的预约
type ReservationStatusResponse struct {
	Reservation  ReservationResponse `json:"reservation"`
	AutoRejected []string            `json:"auto_rejected"`
}

// ReservationConflictItem 冲突列表项，每对冲突在两侧各出现一次
type ReservationConflictItem struct {
	ReservationID string `json:"reservation_id"`
	ConflictsWith string `json:"conflicts_with"`
	HasPriority   bool   `json:"has_priority"`
}
