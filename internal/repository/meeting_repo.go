package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"classroom-portal/internal/model"
	pkgerrors "classroom-portal/pkg/errors"
)

// MeetingFilter 约见列表筛选条件
type MeetingFilter struct {
	TeacherID string
	StudentID string
	Status    model.RequestStatus
	Offset    int
	Limit     int
}

// MeetingRepository 教师约见数据访问接口
type MeetingRepository interface {
	Create(ctx context.Context, m *model.TeacherMeetingRequest) error
	GetByID(ctx context.Context, id string) (*model.TeacherMeetingRequest, error)
	List(ctx context.Context, f MeetingFilter) ([]model.TeacherMeetingRequest, int64, error)
	ListApprovedByTeacherAndDate(ctx context.Context, teacherID string, date time.Time) ([]model.TeacherMeetingRequest, error)
	// ListApprovedByTeacherFrom 返回 from 当天及之后的已批准约见
	ListApprovedByTeacherFrom(ctx context.Context, teacherID string, from time.Time) ([]model.TeacherMeetingRequest, error)
	TransitionStatus(ctx context.Context, id string, from, to model.RequestStatus, d model.DecisionModel) error
}

type meetingRepo struct {
	db *gorm.DB
}

// NewMeetingRepo 创建 MeetingRepository 实例
func NewMeetingRepo(db *gorm.DB) MeetingRepository {
	return &meetingRepo{db: db}
}

func (r *meetingRepo) Create(ctx context.Context, m *model.TeacherMeetingRequest) error {
	return r.db.WithContext(ctx).Omit("Teacher", "Student").Create(m).Error
}

func (r *meetingRepo) GetByID(ctx context.Context, id string) (*model.TeacherMeetingRequest, error) {
	var m model.TeacherMeetingRequest
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *meetingRepo) List(ctx context.Context, f MeetingFilter) ([]model.TeacherMeetingRequest, int64, error) {
	var list []model.TeacherMeetingRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.TeacherMeetingRequest{})
	if f.TeacherID != "" {
		db = db.Where("teacher_id = ?", f.TeacherID)
	}
	if f.StudentID != "" {
		db = db.Where("student_id = ?", f.StudentID)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Offset(f.Offset).Limit(f.Limit).
		Order("meeting_date DESC, start_time ASC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *meetingRepo) ListApprovedByTeacherAndDate(ctx context.Context, teacherID string, date time.Time) ([]model.TeacherMeetingRequest, error) {
	var list []model.TeacherMeetingRequest
	err := r.db.WithContext(ctx).
		Where("teacher_id = ? AND meeting_date = ? AND status = ?", teacherID, datatypes.Date(date), model.StatusApproved).
		Order("start_time ASC").
		Find(&list).Error
	return list, err
}

func (r *meetingRepo) ListApprovedByTeacherFrom(ctx context.Context, teacherID string, from time.Time) ([]model.TeacherMeetingRequest, error) {
	var list []model.TeacherMeetingRequest
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("teacher_id = ? AND meeting_date >= ? AND status = ?", teacherID, datatypes.Date(from), model.StatusApproved).
		Order("meeting_date ASC, start_time ASC").
		Find(&list).Error
	return list, err
}

func (r *meetingRepo) TransitionStatus(ctx context.Context, id string, from, to model.RequestStatus, d model.DecisionModel) error {
	result := r.db.WithContext(ctx).
		Model(&model.TeacherMeetingRequest{}).
		Where("meeting_id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":        to,
			"decided_by":    d.DecidedBy,
			"decided_at":    d.DecidedAt,
			"reject_reason": d.RejectReason,
			"updated_at":    gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStaleState
	}
	return nil
}
