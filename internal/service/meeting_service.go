package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"classroom-portal/internal/conflict"
	"classroom-portal/internal/dto"
	"classroom-portal/internal/model"
	"classroom-portal/internal/repository"
	pkgerrors "classroom-portal/pkg/errors"
)

// ── 约见模块业务错误 ──

var (
	ErrMeetingNotFound  = errors.New("约见申请不存在")
	ErrMeetingForbidden = errors.New("只有被约见教师或管理员可以审批")
)

// MeetingService 教师空闲查询与约见业务接口
type MeetingService interface {
	// CheckAvailability 只读预览：固定课表与已批准约见均视为占用
	CheckAvailability(ctx context.Context, teacherID string, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error)
	Schedule(ctx context.Context, req *dto.CreateMeetingRequest, studentID string) (*dto.MeetingResponse, error)
	GetByID(ctx context.Context, id string) (*dto.MeetingResponse, error)
	List(ctx context.Context, req *dto.MeetingListRequest) ([]dto.MeetingResponse, int64, error)
	UpdateStatus(ctx context.Context, id string, req *dto.UpdateStatusRequest, callerID, callerRole string) (*dto.MeetingResponse, error)
}

type meetingService struct {
	repo   *repository.Repository
	clock  Clock
	logger *zap.Logger
}

// NewMeetingService 创建 MeetingService 实例
func NewMeetingService(repo *repository.Repository, clock Clock, logger *zap.Logger) MeetingService {
	return &meetingService{repo: repo, clock: clock, logger: logger}
}

func meetingLockKey(teacherID string, date time.Time) string {
	return fmt.Sprintf("meeting:%s:%s", teacherID, date.Format(dateLayout))
}

// ────────────────────── CheckAvailability ──────────────────────

func (s *meetingService) CheckAvailability(ctx context.Context, teacherID string, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	date, err := s.clock.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	iv, err := parseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if err := s.checkTeacher(ctx, teacherID); err != nil {
		return nil, err
	}

	result, err := availability(ctx, s.repo, teacherID, date, iv, "")
	if err != nil {
		s.logger.Error("查询教师空闲失败", zap.String("teacher_id", teacherID), zap.Error(err))
		return nil, storeError(err)
	}
	return result, nil
}

// ────────────────────── Schedule ──────────────────────

func (s *meetingService) Schedule(ctx context.Context, req *dto.CreateMeetingRequest, studentID string) (*dto.MeetingResponse, error) {
	date, err := s.clock.ParseDate(req.MeetingDate)
	if err != nil {
		return nil, err
	}
	iv, err := parseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if s.clock.IsPast(date) {
		return nil, ErrPastDate
	}
	if err := s.checkTeacher(ctx, req.TeacherID); err != nil {
		return nil, err
	}

	m := &model.TeacherMeetingRequest{
		TeacherID:   req.TeacherID,
		StudentID:   studentID,
		MeetingDate: datatypes.Date(date),
		StartTime:   iv.Start.String(),
		EndTime:     iv.End.String(),
		Purpose:     req.Purpose,
		Status:      model.StatusPending,
	}

	err = s.repo.Tx.WithTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		if err := tx.Locker.Lock(ctx, meetingLockKey(req.TeacherID, date)); err != nil {
			return err
		}
		avail, err := availability(ctx, tx, req.TeacherID, date, iv, "")
		if err != nil {
			return err
		}
		if !avail.Available {
			return unavailableError(avail)
		}

		now := s.clock.Now()
		m.CreatedAt = now
		m.UpdatedAt = now
		return tx.Meeting.Create(ctx, m)
	})
	if err != nil {
		if errors.Is(err, ErrTeacherUnavailable) {
			s.logger.Info("教师该时段不可用，拒绝约见",
				zap.String("teacher_id", req.TeacherID),
				zap.String("date", req.MeetingDate))
			return nil, err
		}
		s.logger.Error("创建约见失败", zap.Error(err))
		return nil, storeError(err)
	}

	return toMeetingResponse(m), nil
}

// ────────────────────── GetByID / List ──────────────────────

func (s *meetingService) GetByID(ctx context.Context, id string) (*dto.MeetingResponse, error) {
	m, err := s.repo.Meeting.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrMeetingNotFound)
	}
	return toMeetingResponse(m), nil
}

func (s *meetingService) List(ctx context.Context, req *dto.MeetingListRequest) ([]dto.MeetingResponse, int64, error) {
	list, total, err := s.repo.Meeting.List(ctx, repository.MeetingFilter{
		TeacherID: req.TeacherID,
		StudentID: req.StudentID,
		Status:    model.RequestStatus(req.Status),
		Offset:    req.GetOffset(),
		Limit:     req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("列出约见失败", zap.Error(err))
		return nil, 0, storeError(err)
	}

	result := make([]dto.MeetingResponse, 0, len(list))
	for i := range list {
		result = append(result, *toMeetingResponse(&list[i]))
	}
	return result, total, nil
}

// ────────────────────── UpdateStatus ──────────────────────
//
// 单步转换，不连带其他记录。批准前在锁内重新检查空闲（排除自身），
// 保证同一教师同一天的已批准约见互不重叠。

func (s *meetingService) UpdateStatus(ctx context.Context, id string, req *dto.UpdateStatusRequest, callerID, callerRole string) (*dto.MeetingResponse, error) {
	target := model.RequestStatus(req.Status)
	if !target.Terminal() {
		return nil, ErrInvalidStatus
	}

	var updated *model.TeacherMeetingRequest
	err := s.repo.Tx.WithTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		m, err := tx.Meeting.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMeetingNotFound
			}
			return err
		}
		if model.Role(callerRole) != model.RoleAdmin && callerID != m.TeacherID {
			return ErrMeetingForbidden
		}
		if err := tx.Locker.Lock(ctx, meetingLockKey(m.TeacherID, m.Date())); err != nil {
			return err
		}
		if m, err = tx.Meeting.GetByID(ctx, id); err != nil {
			return err
		}
		if m.Status != model.StatusPending {
			return ErrInvalidTransition
		}

		if target == model.StatusApproved {
			self, err := slotOf(m.MeetingID, m.StartTime, m.EndTime)
			if err != nil {
				return err
			}
			avail, err := availability(ctx, tx, m.TeacherID, m.Date(), self.Interval, m.MeetingID)
			if err != nil {
				return err
			}
			if !avail.Available {
				return unavailableError(avail)
			}
		}

		now := s.clock.Now()
		decision := model.DecisionModel{DecidedBy: &callerID, DecidedAt: &now}
		if target == model.StatusRejected && req.Reason != "" {
			reason := req.Reason
			decision.RejectReason = &reason
		}
		if err := tx.Meeting.TransitionStatus(ctx, id, model.StatusPending, target, decision); err != nil {
			if errors.Is(err, pkgerrors.ErrStaleState) {
				return ErrInvalidTransition
			}
			return err
		}
		m.Status = target
		m.DecisionModel = decision
		updated = m
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrMeetingNotFound),
			errors.Is(err, ErrMeetingForbidden),
			errors.Is(err, ErrInvalidTransition),
			errors.Is(err, ErrTeacherUnavailable):
			return nil, err
		}
		s.logger.Error("约见审批失败", zap.String("id", id), zap.Error(err))
		return nil, storeError(err)
	}
	return toMeetingResponse(updated), nil
}

// ── 内部辅助方法 ──

func (s *meetingService) checkTeacher(ctx context.Context, teacherID string) error {
	teacher, err := s.repo.User.GetByID(ctx, teacherID)
	if err != nil {
		return notFoundOr(err, ErrTeacherNotFound)
	}
	if teacher.Role != model.RoleTeacher {
		return ErrTeacherNotFound
	}
	return nil
}

// availability 汇总教师在 date 当天与 iv 冲突的课表和已批准约见
// 待审批 / 已拒绝的约见不构成占用；excludeMeetingID 用于审批时排除自身
func availability(ctx context.Context, repo *repository.Repository, teacherID string, date time.Time, iv conflict.Interval, excludeMeetingID string) (*dto.AvailabilityResponse, error) {
	schedules, err := repo.Schedule.ListByTeacherAndDay(ctx, teacherID, int(conflict.WeekdayOf(date)))
	if err != nil {
		return nil, err
	}
	scheduleHits, err := scheduleSlots(schedules)
	if err != nil {
		return nil, err
	}

	meetings, err := repo.Meeting.ListApprovedByTeacherAndDate(ctx, teacherID, date)
	if err != nil {
		return nil, err
	}
	meetingHits := make([]conflict.Slot, 0, len(meetings))
	for _, m := range meetings {
		sl, err := slotOf(m.MeetingID, m.StartTime, m.EndTime)
		if err != nil {
			return nil, err
		}
		meetingHits = append(meetingHits, sl)
	}

	result := &dto.AvailabilityResponse{
		ConflictingSchedules: toConflictingSlots(conflict.FindOverlapping(iv, scheduleHits, "")),
		ConflictingMeetings:  toConflictingSlots(conflict.FindOverlapping(iv, meetingHits, excludeMeetingID)),
	}
	result.Available = len(result.ConflictingSchedules) == 0 && len(result.ConflictingMeetings) == 0
	return result, nil
}

func toConflictingSlots(hits []conflict.Slot) []dto.ConflictingSlot {
	out := make([]dto.ConflictingSlot, 0, len(hits))
	for _, h := range hits {
		out = append(out, dto.ConflictingSlot{
			ID:        h.ID,
			StartTime: h.Interval.Start.String(),
			EndTime:   h.Interval.End.String(),
		})
	}
	return out
}

// unavailableError 以第一条冲突（课表优先）作为主要冲突项
func unavailableError(avail *dto.AvailabilityResponse) *ConflictError {
	ce := &ConflictError{Kind: KindTeacherUnavailable, Availability: avail}
	first := append(append([]dto.ConflictingSlot{}, avail.ConflictingSchedules...), avail.ConflictingMeetings...)
	if len(first) > 0 {
		ce.ConflictingID = first[0].ID
		ce.StartTime = first[0].StartTime
		ce.EndTime = first[0].EndTime
	}
	return ce
}

func toMeetingResponse(m *model.TeacherMeetingRequest) *dto.MeetingResponse {
	resp := &dto.MeetingResponse{
		ID:           m.MeetingID,
		TeacherID:    m.TeacherID,
		StudentID:    m.StudentID,
		MeetingDate:  m.Date().Format(dateLayout),
		StartTime:    clockText(m.StartTime),
		EndTime:      clockText(m.EndTime),
		Purpose:      m.Purpose,
		Status:       string(m.Status),
		DecidedBy:    m.DecidedBy,
		RejectReason: m.RejectReason,
		CreatedAt:    m.CreatedAt.Format(timestampLayout),
	}
	if m.DecidedAt != nil {
		at := m.DecidedAt.Format(timestampLayout)
		resp.DecidedAt = &at
	}
	return resp
}
