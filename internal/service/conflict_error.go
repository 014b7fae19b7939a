package service

import (
	"errors"
	"fmt"
	"time"

	"classroom-portal/internal/conflict"
	"classroom-portal/internal/dto"
	pkgerrors "classroom-portal/pkg/errors"
)

// ── 跨模块通用业务错误 ──

var (
	ErrInvalidTimeRange  = errors.New("时间区间无效：开始时间必须早于结束时间")
	ErrInvalidDayOfWeek  = errors.New("星期取值必须在 1-7 之间")
	ErrInvalidDate       = errors.New("日期格式无效，应为 YYYY-MM-DD")
	ErrPastDate          = errors.New("不能预约过去的日期")
	ErrInvalidStatus     = errors.New("目标状态只能是 approved 或 rejected")
	ErrInvalidTransition = errors.New("当前状态不允许此操作")
	ErrStoreUnavailable  = pkgerrors.ErrStoreUnavailable

	ErrScheduleOverlap     = errors.New("与同一教室同一天的已有课表时间重叠")
	ErrScheduleConflict    = errors.New("与该教室的固定课表时间冲突")
	ErrReservationConflict = errors.New("与该教室当天的其他预约时间冲突")
	ErrTeacherUnavailable  = errors.New("教师在该时段没有空闲")
)

// ConflictKind 冲突类别，同时作为响应中的错误标签
type ConflictKind string

const (
	KindOverlap             ConflictKind = "overlap"
	KindScheduleConflict    ConflictKind = "schedule_conflict"
	KindReservationConflict ConflictKind = "reservation_conflict"
	KindTeacherUnavailable  ConflictKind = "teacher_unavailable"
)

// ConflictError 写入被拒时携带的冲突详情
// 可用 errors.Is 匹配对应类别的哨兵错误，用 errors.As 读取详情
type ConflictError struct {
	Kind          ConflictKind
	ConflictingID string
	StartTime     string
	EndTime       string
	// Availability 仅教师不可用时填充
	Availability *dto.AvailabilityResponse
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: 与 %s (%s-%s) 冲突", e.Kind, e.ConflictingID, e.StartTime, e.EndTime)
}

func (e *ConflictError) Unwrap() error {
	switch e.Kind {
	case KindOverlap:
		return ErrScheduleOverlap
	case KindScheduleConflict:
		return ErrScheduleConflict
	case KindReservationConflict:
		return ErrReservationConflict
	case KindTeacherUnavailable:
		return ErrTeacherUnavailable
	}
	return nil
}

func newConflictError(kind ConflictKind, hit conflict.Slot) *ConflictError {
	return &ConflictError{
		Kind:          kind,
		ConflictingID: hit.ID,
		StartTime:     hit.Interval.Start.String(),
		EndTime:       hit.Interval.End.String(),
	}
}

// ── 内部辅助 ──

// storeError 将可重试的存储故障归一为 ErrStoreUnavailable
func storeError(err error) error {
	if err == nil {
		return nil
	}
	if pkgerrors.IsTransient(err) && !errors.Is(err, ErrStoreUnavailable) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}

// parseInterval 解析请求中的起止时间
func parseInterval(start, end string) (conflict.Interval, error) {
	iv, err := conflict.ParseInterval(start, end)
	if err != nil {
		return conflict.Interval{}, fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
	}
	return iv, nil
}

// slotOf 由库中记录构造冲突判定单元
func slotOf(id, start, end string) (conflict.Slot, error) {
	iv, err := conflict.ParseInterval(start, end)
	if err != nil {
		return conflict.Slot{}, fmt.Errorf("记录 %s 的时间区间无效: %w", id, err)
	}
	return conflict.Slot{ID: id, Interval: iv}, nil
}

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339
)
