package dto

// ── 教室模块 DTO ──

// CreateClassroomRequest 创建教室请求
type CreateClassroomRequest struct {
	Name     string `json:"name"     binding:"required,min=1,max=100"`
	Type     string `json:"type"     binding:"required,classroom_type"`
	Capacity *int   `json:"capacity" binding:"omitempty,min=1,max=2000"`
}

// UpdateClassroomRequest 更新教室请求（字段均可选）
type UpdateClassroomRequest struct {
	Name     *string `json:"name"     binding:"omitempty,min=1,max=100"`
	Type     *string `json:"type"     binding:"omitempty,classroom_type"`
	Capacity *int    `json:"capacity" binding:"omitempty,min=1,max=2000"`
}

// ClassroomListRequest 教室列表查询参数
type ClassroomListRequest struct {
	Type string `form:"type" binding:"omitempty,classroom_type"`
}

// ClassroomResponse 教室响应
type ClassroomResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Capacity  *int   `json:"capacity,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
