package repository

import (
	"context"

	"gorm.io/gorm"

	"classroom-portal/internal/model"
)

// ClassroomRepository 教室数据访问接口
type ClassroomRepository interface {
	Create(ctx context.Context, room *model.Classroom) error
	GetByID(ctx context.Context, id string) (*model.Classroom, error)
	List(ctx context.Context, roomType model.ClassroomType) ([]model.Classroom, error)
	Update(ctx context.Context, room *model.Classroom) error
	Delete(ctx context.Context, id string) error
	// CountReferences 统计引用该教室的课表与有效预约（pending/approved）
	CountReferences(ctx context.Context, id string) (schedules int64, reservations int64, err error)
}

type classroomRepo struct {
	db *gorm.DB
}

// NewClassroomRepo 创建 ClassroomRepository 实例
func NewClassroomRepo(db *gorm.DB) ClassroomRepository {
	return &classroomRepo{db: db}
}

func (r *classroomRepo) Create(ctx context.Context, room *model.Classroom) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *classroomRepo) GetByID(ctx context.Context, id string) (*model.Classroom, error) {
	var room model.Classroom
	err := r.db.WithContext(ctx).
		Where("classroom_id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *classroomRepo) List(ctx context.Context, roomType model.ClassroomType) ([]model.Classroom, error) {
	var rooms []model.Classroom
	db := r.db.WithContext(ctx)
	if roomType != "" {
		db = db.Where("type = ?", roomType)
	}
	err := db.Order("name ASC").Find(&rooms).Error
	return rooms, err
}

func (r *classroomRepo) Update(ctx context.Context, room *model.Classroom) error {
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *classroomRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("classroom_id = ?", id).
		Delete(&model.Classroom{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *classroomRepo) CountReferences(ctx context.Context, id string) (int64, int64, error) {
	var schedules, reservations int64
	if err := r.db.WithContext(ctx).
		Model(&model.RecurringSchedule{}).
		Where("classroom_id = ?", id).
		Count(&schedules).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("classroom_id = ? AND status IN ?", id, []model.RequestStatus{model.StatusPending, model.StatusApproved}).
		Count(&reservations).Error; err != nil {
		return 0, 0, err
	}
	return schedules, reservations, nil
}
