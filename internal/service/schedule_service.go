package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"classroom-portal/internal/conflict"
	"classroom-portal/internal/dto"
	"classroom-portal/internal/model"
	"classroom-portal/internal/repository"
)

// ── 课表模块业务错误 ──

var (
	ErrScheduleNotFound = errors.New("课表记录不存在")
	ErrCourseNotFound   = errors.New("课程不存在")
	ErrGroupNotFound    = errors.New("班级不存在")
	ErrTeacherNotFound  = errors.New("教师不存在")
)

// ScheduleService 每周固定课表业务接口
type ScheduleService interface {
	// Upsert excludeID 为空时新建，否则更新该记录（冲突检测时排除自身）
	Upsert(ctx context.Context, req *dto.UpsertScheduleRequest, excludeID, callerID string) (*dto.ScheduleResponse, error)
	Delete(ctx context.Context, id string) error
	ListByGroup(ctx context.Context, groupID string) ([]dto.ScheduleView, error)
}

type scheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, logger: logger}
}

func scheduleLockKey(classroomID string, day int) string {
	return fmt.Sprintf("schedule:%s:%d", classroomID, day)
}

// ────────────────────── Upsert ──────────────────────

func (s *scheduleService) Upsert(ctx context.Context, req *dto.UpsertScheduleRequest, excludeID, callerID string) (*dto.ScheduleResponse, error) {
	// 1. 入参校验（先于任何存储访问）
	iv, err := parseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if !conflict.DayOfWeek(req.DayOfWeek).Valid() {
		return nil, ErrInvalidDayOfWeek
	}

	// 2. 关联对象存在性
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}

	record := &model.RecurringSchedule{
		ScheduleID:  excludeID,
		ClassroomID: req.ClassroomID,
		CourseID:    req.CourseID,
		TeacherID:   req.TeacherID,
		GroupID:     req.GroupID,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   iv.Start.String(),
		EndTime:     iv.End.String(),
	}
	record.UpdatedBy = &callerID

	// 3. 加锁 → 检查 → 写入，同一事务
	err = s.repo.Tx.WithTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		if err := tx.Locker.Lock(ctx, scheduleLockKey(req.ClassroomID, req.DayOfWeek)); err != nil {
			return err
		}

		if excludeID != "" {
			if _, err := tx.Schedule.GetByID(ctx, excludeID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrScheduleNotFound
				}
				return err
			}
		}

		existing, err := tx.Schedule.ListByClassroomAndDay(ctx, req.ClassroomID, req.DayOfWeek)
		if err != nil {
			return err
		}
		slots, err := scheduleSlots(existing)
		if err != nil {
			return err
		}
		if hit, found := conflict.FirstOverlapping(iv, slots, excludeID); found {
			return newConflictError(KindOverlap, hit)
		}

		if excludeID == "" {
			record.CreatedBy = &callerID
			return tx.Schedule.Create(ctx, record)
		}
		if err := tx.Schedule.Update(ctx, record); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrScheduleNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		var ce *ConflictError
		switch {
		case errors.As(err, &ce):
			s.logger.Info("课表时间重叠，拒绝写入",
				zap.String("classroom_id", req.ClassroomID),
				zap.Int("day_of_week", req.DayOfWeek),
				zap.String("conflicting_id", ce.ConflictingID))
			return nil, err
		case errors.Is(err, ErrScheduleNotFound):
			return nil, err
		}
		s.logger.Error("写入课表失败", zap.String("id", excludeID), zap.Error(err))
		return nil, storeError(err)
	}

	return toScheduleResponse(record), nil
}

func (s *scheduleService) checkReferences(ctx context.Context, req *dto.UpsertScheduleRequest) error {
	if _, err := s.repo.Classroom.GetByID(ctx, req.ClassroomID); err != nil {
		return notFoundOr(err, ErrClassroomNotFound)
	}
	if _, err := s.repo.Course.GetByID(ctx, req.CourseID); err != nil {
		return notFoundOr(err, ErrCourseNotFound)
	}
	if _, err := s.repo.Group.GetByID(ctx, req.GroupID); err != nil {
		return notFoundOr(err, ErrGroupNotFound)
	}
	teacher, err := s.repo.User.GetByID(ctx, req.TeacherID)
	if err != nil {
		return notFoundOr(err, ErrTeacherNotFound)
	}
	if teacher.Role != model.RoleTeacher {
		return ErrTeacherNotFound
	}
	return nil
}

// ────────────────────── Delete ──────────────────────

func (s *scheduleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Schedule.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleNotFound
		}
		s.logger.Error("删除课表失败", zap.String("id", id), zap.Error(err))
		return storeError(err)
	}
	return nil
}

// ────────────────────── ListByGroup ──────────────────────

func (s *scheduleService) ListByGroup(ctx context.Context, groupID string) ([]dto.ScheduleView, error) {
	if _, err := s.repo.Group.GetByID(ctx, groupID); err != nil {
		return nil, notFoundOr(err, ErrGroupNotFound)
	}

	list, err := s.repo.Schedule.ListByGroup(ctx, groupID)
	if err != nil {
		s.logger.Error("查询班级课表失败", zap.String("group_id", groupID), zap.Error(err))
		return nil, storeError(err)
	}

	result := make([]dto.ScheduleView, 0, len(list))
	for i := range list {
		result = append(result, toScheduleView(&list[i]))
	}
	return result, nil
}

// ── 内部辅助方法 ──

// notFoundOr 将 gorm.ErrRecordNotFound 映射为模块错误，其余错误归一化
func notFoundOr(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return storeError(err)
}

func scheduleSlots(list []model.RecurringSchedule) ([]conflict.Slot, error) {
	slots := make([]conflict.Slot, 0, len(list))
	for _, rs := range list {
		sl, err := slotOf(rs.ScheduleID, rs.StartTime, rs.EndTime)
		if err != nil {
			return nil, err
		}
		slots = append(slots, sl)
	}
	return slots, nil
}

func toScheduleResponse(rs *model.RecurringSchedule) *dto.ScheduleResponse {
	return &dto.ScheduleResponse{
		ID:          rs.ScheduleID,
		ClassroomID: rs.ClassroomID,
		CourseID:    rs.CourseID,
		TeacherID:   rs.TeacherID,
		GroupID:     rs.GroupID,
		DayOfWeek:   rs.DayOfWeek,
		StartTime:   clockText(rs.StartTime),
		EndTime:     clockText(rs.EndTime),
	}
}

func toScheduleView(rs *model.RecurringSchedule) dto.ScheduleView {
	v := dto.ScheduleView{
		ID:        rs.ScheduleID,
		DayOfWeek: rs.DayOfWeek,
		StartTime: clockText(rs.StartTime),
		EndTime:   clockText(rs.EndTime),
	}
	if rs.Classroom != nil {
		v.Classroom = &dto.NamedRef{ID: rs.Classroom.ClassroomID, Name: rs.Classroom.Name}
	}
	if rs.Course != nil {
		v.Course = &dto.NamedRef{ID: rs.Course.CourseID, Name: rs.Course.Name}
	}
	if rs.Teacher != nil {
		v.Teacher = &dto.NamedRef{ID: rs.Teacher.UserID, Name: rs.Teacher.Name}
	}
	if rs.Group != nil {
		v.Group = &dto.NamedRef{ID: rs.Group.GroupID, Name: rs.Group.Name}
	}
	return v
}

// clockText 将 time 列的 "HH:MM:SS" 统一为 "HH:MM"
func clockText(s string) string {
	c, err := conflict.ParseClock(s)
	if err != nil {
		return s
	}
	return c.String()
}
