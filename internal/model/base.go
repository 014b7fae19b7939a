package model

import "time"

// BaseModel 通用审计字段（目录类模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// DecisionModel 审批类记录的审计字段
type DecisionModel struct {
	DecidedBy    *string    `gorm:"type:uuid"         json:"decided_by,omitempty"`
	DecidedAt    *time.Time `                         json:"decided_at,omitempty"`
	RejectReason *string    `gorm:"type:varchar(255)" json:"reject_reason,omitempty"`
}
