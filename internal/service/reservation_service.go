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

// ── 预约模块业务错误 ──

var (
	ErrReservationNotFound = errors.New("预约不存在")
)

// ReservationService 教室预约业务接口
type ReservationService interface {
	Create(ctx context.Context, req *dto.CreateReservationRequest, callerID string) (*dto.ReservationResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ReservationResponse, error)
	List(ctx context.Context, req *dto.ReservationListRequest) ([]dto.ReservationResponse, int64, error)
	// UpdateStatus 审批：批准时同一事务内连带拒绝与之重叠的待审批预约
	UpdateStatus(ctx context.Context, id string, req *dto.UpdateStatusRequest, callerID string) (*dto.ReservationStatusResponse, error)
	// ListConflicts 当天待审批预约的两两冲突及优先级，仅供参考
	ListConflicts(ctx context.Context, classroomID, date string) ([]dto.ReservationConflictItem, error)
}

type reservationService struct {
	repo   *repository.Repository
	clock  Clock
	logger *zap.Logger
}

// NewReservationService 创建 ReservationService 实例
func NewReservationService(repo *repository.Repository, clock Clock, logger *zap.Logger) ReservationService {
	return &reservationService{repo: repo, clock: clock, logger: logger}
}

func reservationLockKey(classroomID string, date time.Time) string {
	return fmt.Sprintf("reservation:%s:%s", classroomID, date.Format(dateLayout))
}

// ════════════════════════════════════════════════════════════
// Create
// ════════════════════════════════════════════════════════════
//
// 检查顺序固定：过去日期 → 固定课表 → 当天其他有效预约

func (s *reservationService) Create(ctx context.Context, req *dto.CreateReservationRequest, callerID string) (*dto.ReservationResponse, error) {
	date, err := s.clock.ParseDate(req.ReservationDate)
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
	if _, err := s.repo.Classroom.GetByID(ctx, req.ClassroomID); err != nil {
		return nil, notFoundOr(err, ErrClassroomNotFound)
	}

	day := int(conflict.WeekdayOf(date))
	res := &model.Reservation{
		ClassroomID:     req.ClassroomID,
		UserID:          callerID,
		Purpose:         req.Purpose,
		Attendees:       req.Attendees,
		ReservationDate: datatypes.Date(date),
		StartTime:       iv.Start.String(),
		EndTime:         iv.End.String(),
		Status:          model.StatusPending,
	}

	err = s.repo.Tx.WithTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		if err := tx.Locker.Lock(ctx, reservationLockKey(req.ClassroomID, date)); err != nil {
			return err
		}

		schedules, err := tx.Schedule.ListByClassroomAndDay(ctx, req.ClassroomID, day)
		if err != nil {
			return err
		}
		scheduleSlots, err := scheduleSlots(schedules)
		if err != nil {
			return err
		}
		if hit, found := conflict.FirstOverlapping(iv, scheduleSlots, ""); found {
			return newConflictError(KindScheduleConflict, hit)
		}

		active, err := tx.Reservation.ListActiveByClassroomAndDate(ctx, req.ClassroomID, date)
		if err != nil {
			return err
		}
		activeSlots, err := reservationSlots(active)
		if err != nil {
			return err
		}
		if hit, found := conflict.FirstOverlapping(iv, activeSlots, ""); found {
			return newConflictError(KindReservationConflict, hit)
		}

		now := s.clock.Now()
		res.CreatedAt = now
		res.UpdatedAt = now
		return tx.Reservation.Create(ctx, res)
	})
	if err != nil {
		var ce *ConflictError
		if errors.As(err, &ce) {
			s.logger.Info("预约时间冲突，拒绝创建",
				zap.String("classroom_id", req.ClassroomID),
				zap.String("date", req.ReservationDate),
				zap.String("kind", string(ce.Kind)),
				zap.String("conflicting_id", ce.ConflictingID))
			return nil, err
		}
		s.logger.Error("创建预约失败", zap.Error(err))
		return nil, storeError(err)
	}

	return toReservationResponse(res), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *reservationService) GetByID(ctx context.Context, id string) (*dto.ReservationResponse, error) {
	res, err := s.repo.Reservation.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询预约失败", zap.String("id", id), zap.Error(err))
		}
		return nil, notFoundOr(err, ErrReservationNotFound)
	}
	return toReservationResponse(res), nil
}

// ────────────────────── List ──────────────────────

func (s *reservationService) List(ctx context.Context, req *dto.ReservationListRequest) ([]dto.ReservationResponse, int64, error) {
	filter := repository.ReservationFilter{
		ClassroomID: req.ClassroomID,
		UserID:      req.UserID,
		Status:      model.RequestStatus(req.Status),
		Offset:      req.GetOffset(),
		Limit:       req.GetPageSize(),
	}
	if req.Date != "" {
		date, err := s.clock.ParseDate(req.Date)
		if err != nil {
			return nil, 0, err
		}
		filter.Date = &date
	}

	list, total, err := s.repo.Reservation.List(ctx, filter)
	if err != nil {
		s.logger.Error("列出预约失败", zap.Error(err))
		return nil, 0, storeError(err)
	}

	result := make([]dto.ReservationResponse, 0, len(list))
	for i := range list {
		result = append(result, *toReservationResponse(&list[i]))
	}
	return result, total, nil
}

// ════════════════════════════════════════════════════════════
// UpdateStatus
// ════════════════════════════════════════════════════════════
//
// 仅 pending 可转换；状态写入以 status = 'pending' 为条件，
// 并发下后到者得到 ErrInvalidTransition。连带拒绝中任一写入失败则整体回滚。

func (s *reservationService) UpdateStatus(ctx context.Context, id string, req *dto.UpdateStatusRequest, callerID string) (*dto.ReservationStatusResponse, error) {
	target := model.RequestStatus(req.Status)
	if !target.Terminal() {
		return nil, ErrInvalidStatus
	}

	var (
		updated      *model.Reservation
		autoRejected []string
	)
	err := s.repo.Tx.WithTx(ctx, func(ctx context.Context, tx *repository.Repository) error {
		res, err := tx.Reservation.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		if err := tx.Locker.Lock(ctx, reservationLockKey(res.ClassroomID, res.Date())); err != nil {
			return err
		}
		// 加锁后重新读取，以锁内状态为准
		if res, err = tx.Reservation.GetByID(ctx, id); err != nil {
			return err
		}
		if res.Status != model.StatusPending {
			return ErrInvalidTransition
		}

		now := s.clock.Now()
		decision := model.DecisionModel{DecidedBy: &callerID, DecidedAt: &now}
		if target == model.StatusRejected && req.Reason != "" {
			reason := req.Reason
			decision.RejectReason = &reason
		}
		if err := tx.Reservation.TransitionStatus(ctx, id, model.StatusPending, target, decision); err != nil {
			if errors.Is(err, pkgerrors.ErrStaleState) {
				return ErrInvalidTransition
			}
			return err
		}
		res.Status = target
		res.DecisionModel = decision
		updated = res

		if target != model.StatusApproved {
			return nil
		}

		// 批准：连带拒绝与之重叠的待审批预约
		self, err := slotOf(res.ReservationID, res.StartTime, res.EndTime)
		if err != nil {
			return err
		}
		pending, err := tx.Reservation.ListPendingByClassroomAndDate(ctx, res.ClassroomID, res.Date())
		if err != nil {
			return err
		}
		pendingSlots, err := reservationSlots(pending)
		if err != nil {
			return err
		}
		reason := fmt.Sprintf("与已批准的预约 %s 时间冲突", res.ReservationID)
		cascade := model.DecisionModel{DecidedBy: &callerID, DecidedAt: &now, RejectReason: &reason}
		for _, hit := range conflict.FindOverlapping(self.Interval, pendingSlots, res.ReservationID) {
			if err := tx.Reservation.TransitionStatus(ctx, hit.ID, model.StatusPending, model.StatusRejected, cascade); err != nil {
				return fmt.Errorf("连带拒绝预约 %s 失败: %w", hit.ID, err)
			}
			autoRejected = append(autoRejected, hit.ID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrReservationNotFound) || errors.Is(err, ErrInvalidTransition) {
			return nil, err
		}
		s.logger.Error("预约审批失败，事务已回滚", zap.String("id", id), zap.Error(err))
		return nil, storeError(err)
	}

	if len(autoRejected) > 0 {
		s.logger.Info("批准预约并连带拒绝冲突预约",
			zap.String("id", id),
			zap.Strings("auto_rejected", autoRejected))
	}

	if autoRejected == nil {
		autoRejected = []string{}
	}
	return &dto.ReservationStatusResponse{
		Reservation:  *toReservationResponse(updated),
		AutoRejected: autoRejected,
	}, nil
}

// ────────────────────── ListConflicts ──────────────────────

func (s *reservationService) ListConflicts(ctx context.Context, classroomID, dateStr string) ([]dto.ReservationConflictItem, error) {
	date, err := s.clock.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.Classroom.GetByID(ctx, classroomID); err != nil {
		return nil, notFoundOr(err, ErrClassroomNotFound)
	}

	pending, err := s.repo.Reservation.ListPendingByClassroomAndDate(ctx, classroomID, date)
	if err != nil {
		s.logger.Error("查询待审批预约失败", zap.String("classroom_id", classroomID), zap.Error(err))
		return nil, storeError(err)
	}
	slots, err := reservationSlots(pending)
	if err != nil {
		return nil, err
	}

	pairs := conflict.PairwiseConflicts(slots)
	result := make([]dto.ReservationConflictItem, 0, len(pairs))
	for _, p := range pairs {
		result = append(result, dto.ReservationConflictItem{
			ReservationID: p.ID,
			ConflictsWith: p.ConflictsWith,
			HasPriority:   p.HasPriority,
		})
	}
	return result, nil
}

// ── 内部辅助方法 ──

func reservationSlots(list []model.Reservation) ([]conflict.Slot, error) {
	slots := make([]conflict.Slot, 0, len(list))
	for _, r := range list {
		sl, err := slotOf(r.ReservationID, r.StartTime, r.EndTime)
		if err != nil {
			return nil, err
		}
		sl.CreatedAt = r.CreatedAt
		slots = append(slots, sl)
	}
	return slots, nil
}

func toReservationResponse(r *model.Reservation) *dto.ReservationResponse {
	resp := &dto.ReservationResponse{
		ID:              r.ReservationID,
		ClassroomID:     r.ClassroomID,
		UserID:          r.UserID,
		Purpose:         r.Purpose,
		Attendees:       r.Attendees,
		ReservationDate: r.Date().Format(dateLayout),
		StartTime:       clockText(r.StartTime),
		EndTime:         clockText(r.EndTime),
		Status:          string(r.Status),
		DecidedBy:       r.DecidedBy,
		RejectReason:    r.RejectReason,
		CreatedAt:       r.CreatedAt.Format(timestampLayout),
	}
	if r.DecidedAt != nil {
		at := r.DecidedAt.Format(timestampLayout)
		resp.DecidedAt = &at
	}
	return resp
}
