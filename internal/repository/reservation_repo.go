package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"classroom-portal/internal/model"
	pkgerrors "classroom-portal/pkg/errors"
)

// ReservationFilter 预约列表筛选条件，零值字段不参与过滤
type ReservationFilter struct {
	ClassroomID string
	UserID      string
	Status      model.RequestStatus
	Date        *time.Time
	Offset      int
	Limit       int
}

// ReservationRepository 教室预约数据访问接口
type ReservationRepository interface {
	Create(ctx context.Context, r *model.Reservation) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	List(ctx context.Context, f ReservationFilter) ([]model.Reservation, int64, error)
	// ListActiveByClassroomAndDate 返回 pending + approved，按 created_at 升序
	ListActiveByClassroomAndDate(ctx context.Context, classroomID string, date time.Time) ([]model.Reservation, error)
	ListPendingByClassroomAndDate(ctx context.Context, classroomID string, date time.Time) ([]model.Reservation, error)
	// ListApprovedByClassroomBetween 日期闭区间 [from, to]
	ListApprovedByClassroomBetween(ctx context.Context, classroomID string, from, to time.Time) ([]model.Reservation, error)
	// TransitionStatus 仅当当前状态为 from 时更新，未命中返回 pkgerrors.ErrStaleState
	TransitionStatus(ctx context.Context, id string, from, to model.RequestStatus, d model.DecisionModel) error
}

type reservationRepo struct {
	db *gorm.DB
}

// NewReservationRepo 创建 ReservationRepository 实例
func NewReservationRepo(db *gorm.DB) ReservationRepository {
	return &reservationRepo{db: db}
}

func (r *reservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	return r.db.WithContext(ctx).Omit("Classroom", "User").Create(res).Error
}

func (r *reservationRepo) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	var res model.Reservation
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", id).
		First(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepo) List(ctx context.Context, f ReservationFilter) ([]model.Reservation, int64, error) {
	var list []model.Reservation
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Reservation{})
	if f.ClassroomID != "" {
		db = db.Where("classroom_id = ?", f.ClassroomID)
	}
	if f.UserID != "" {
		db = db.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.Date != nil {
		db = db.Where("reservation_date = ?", datatypes.Date(*f.Date))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Classroom").
		Offset(f.Offset).Limit(f.Limit).
		Order("reservation_date DESC, start_time ASC").
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *reservationRepo) ListActiveByClassroomAndDate(ctx context.Context, classroomID string, date time.Time) ([]model.Reservation, error) {
	return r.listByClassroomAndDate(ctx, classroomID, date, model.StatusPending, model.StatusApproved)
}

func (r *reservationRepo) ListPendingByClassroomAndDate(ctx context.Context, classroomID string, date time.Time) ([]model.Reservation, error) {
	return r.listByClassroomAndDate(ctx, classroomID, date, model.StatusPending)
}

func (r *reservationRepo) listByClassroomAndDate(ctx context.Context, classroomID string, date time.Time, statuses ...model.RequestStatus) ([]model.Reservation, error) {
	var list []model.Reservation
	err := r.db.WithContext(ctx).
		Where("classroom_id = ? AND reservation_date = ? AND status IN ?", classroomID, datatypes.Date(date), statuses).
		Order("created_at ASC, reservation_id ASC").
		Find(&list).Error
	return list, err
}

func (r *reservationRepo) ListApprovedByClassroomBetween(ctx context.Context, classroomID string, from, to time.Time) ([]model.Reservation, error) {
	var list []model.Reservation
	err := r.db.WithContext(ctx).
		Where("classroom_id = ? AND status = ?", classroomID, model.StatusApproved).
		Where("reservation_date BETWEEN ? AND ?", datatypes.Date(from), datatypes.Date(to)).
		Order("reservation_date ASC, start_time ASC").
		Find(&list).Error
	return list, err
}

func (r *reservationRepo) TransitionStatus(ctx context.Context, id string, from, to model.RequestStatus, d model.DecisionModel) error {
	result := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("reservation_id = ? AND status = ?", id, from).
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
