package repository

import (
	"context"

	"gorm.io/gorm"

	"classroom-portal/internal/model"
)

// ScheduleRepository 每周固定课表数据访问接口
type ScheduleRepository interface {
	Create(ctx context.Context, s *model.RecurringSchedule) error
	GetByID(ctx context.Context, id string) (*model.RecurringSchedule, error)
	Update(ctx context.Context, s *model.RecurringSchedule) error
	Delete(ctx context.Context, id string) error
	ListByClassroomAndDay(ctx context.Context, classroomID string, day int) ([]model.RecurringSchedule, error)
	ListByTeacherAndDay(ctx context.Context, teacherID string, day int) ([]model.RecurringSchedule, error)
	// 以下查询预加载教室/课程/教师/班级，用于展示与导出
	ListByGroup(ctx context.Context, groupID string) ([]model.RecurringSchedule, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]model.RecurringSchedule, error)
	ListByClassroom(ctx context.Context, classroomID string) ([]model.RecurringSchedule, error)
}

type scheduleRepo struct {
	db *gorm.DB
}

// NewScheduleRepo 创建 ScheduleRepository 实例
func NewScheduleRepo(db *gorm.DB) ScheduleRepository {
	return &scheduleRepo{db: db}
}

func (r *scheduleRepo) Create(ctx context.Context, s *model.RecurringSchedule) error {
	return r.db.WithContext(ctx).Omit("Classroom", "Course", "Teacher", "Group").Create(s).Error
}

func (r *scheduleRepo) GetByID(ctx context.Context, id string) (*model.RecurringSchedule, error) {
	var s model.RecurringSchedule
	err := r.db.WithContext(ctx).
		Where("schedule_id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *scheduleRepo) Update(ctx context.Context, s *model.RecurringSchedule) error {
	result := r.db.WithContext(ctx).
		Model(&model.RecurringSchedule{}).
		Where("schedule_id = ?", s.ScheduleID).
		Updates(map[string]interface{}{
			"classroom_id": s.ClassroomID,
			"course_id":    s.CourseID,
			"teacher_id":   s.TeacherID,
			"group_id":     s.GroupID,
			"day_of_week":  s.DayOfWeek,
			"start_time":   s.StartTime,
			"end_time":     s.EndTime,
			"updated_by":   s.UpdatedBy,
			"updated_at":   gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *scheduleRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("schedule_id = ?", id).
		Delete(&model.RecurringSchedule{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *scheduleRepo) ListByClassroomAndDay(ctx context.Context, classroomID string, day int) ([]model.RecurringSchedule, error) {
	var list []model.RecurringSchedule
	err := r.db.WithContext(ctx).
		Where("classroom_id = ? AND day_of_week = ?", classroomID, day).
		Order("start_time ASC").
		Find(&list).Error
	return list, err
}

func (r *scheduleRepo) ListByTeacherAndDay(ctx context.Context, teacherID string, day int) ([]model.RecurringSchedule, error) {
	var list []model.RecurringSchedule
	err := r.db.WithContext(ctx).
		Where("teacher_id = ? AND day_of_week = ?", teacherID, day).
		Order("start_time ASC").
		Find(&list).Error
	return list, err
}

func (r *scheduleRepo) ListByGroup(ctx context.Context, groupID string) ([]model.RecurringSchedule, error) {
	return r.listWithRefs(ctx, "group_id = ?", groupID)
}

func (r *scheduleRepo) ListByTeacher(ctx context.Context, teacherID string) ([]model.RecurringSchedule, error) {
	return r.listWithRefs(ctx, "teacher_id = ?", teacherID)
}

func (r *scheduleRepo) ListByClassroom(ctx context.Context, classroomID string) ([]model.RecurringSchedule, error) {
	return r.listWithRefs(ctx, "classroom_id = ?", classroomID)
}

func (r *scheduleRepo) listWithRefs(ctx context.Context, cond string, arg string) ([]model.RecurringSchedule, error) {
	var list []model.RecurringSchedule
	err := r.db.WithContext(ctx).
		Preload("Classroom").
		Preload("Course").
		Preload("Teacher").
		Preload("Group").
		Where(cond, arg).
		Order("day_of_week ASC, start_time ASC").
		Find(&list).Error
	return list, err
}
