package model

// ── 枚举类型 ──
// 所有枚举以字符串落库，未知取值在边界层拒绝

// Role 用户角色
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Valid 是否为已知角色
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// ClassroomType 教室类型
type ClassroomType string

const (
	ClassroomLecture     ClassroomType = "lecture"
	ClassroomTutorial    ClassroomType = "tutorial"
	ClassroomWorkshop    ClassroomType = "workshop"
	ClassroomLaboratory  ClassroomType = "laboratory"
	ClassroomComputerLab ClassroomType = "computer_lab"
)

// ClassroomTypes 全部教室类型，供校验器与下拉选项使用
var ClassroomTypes = []ClassroomType{
	ClassroomLecture, ClassroomTutorial, ClassroomWorkshop, ClassroomLaboratory, ClassroomComputerLab,
}

// Valid 是否为已知教室类型
func (t ClassroomType) Valid() bool {
	for _, v := range ClassroomTypes {
		if t == v {
			return true
		}
	}
	return false
}

// RequestStatus 预约 / 约见申请状态
// pending → approved | rejected，后两者为终态
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// Valid 是否为已知状态
func (s RequestStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Terminal 是否为终态
func (s RequestStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Active 是否仍占用资源（待审批或已批准）
func (s RequestStatus) Active() bool {
	return s == StatusPending || s == StatusApproved
}
