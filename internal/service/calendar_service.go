package service

import (
	"context"
	"fmt"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"classroom-portal/internal/conflict"
	"classroom-portal/internal/repository"
)

// CalendarService 教师日历订阅（.ics）业务接口
type CalendarService interface {
	// ExportTeacherCalendar from 为空时取今天；固定课表以每周 RRULE 事件输出，已批准约见为单次事件
	ExportTeacherCalendar(ctx context.Context, teacherID, from string) ([]byte, string, error)
}

type calendarService struct {
	repo   *repository.Repository
	clock  Clock
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, clock Clock, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, clock: clock, logger: logger}
}

// 同一条记录每次导出的 UID 不变，订阅端据此去重
func eventUID(kind, id string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(kind+":"+id)).String() + "@classroom-portal"
}

func (s *calendarService) ExportTeacherCalendar(ctx context.Context, teacherID, fromStr string) ([]byte, string, error) {
	from := s.clock.Today()
	if fromStr != "" {
		d, err := s.clock.ParseDate(fromStr)
		if err != nil {
			return nil, "", err
		}
		from = d
	}

	teacher, err := s.repo.User.GetByID(ctx, teacherID)
	if err != nil {
		return nil, "", notFoundOr(err, ErrTeacherNotFound)
	}

	schedules, err := s.repo.Schedule.ListByTeacher(ctx, teacherID)
	if err != nil {
		s.logger.Error("查询教师课表失败", zap.String("teacher_id", teacherID), zap.Error(err))
		return nil, "", storeError(err)
	}
	meetings, err := s.repo.Meeting.ListApprovedByTeacherFrom(ctx, teacherID, from)
	if err != nil {
		s.logger.Error("查询教师约见失败", zap.String("teacher_id", teacherID), zap.Error(err))
		return nil, "", storeError(err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//classroom-portal//teacher calendar//ZH")
	cal.SetXWRCalName(teacher.Name + " 的课表")
	cal.SetXWRTimezone(s.clock.Location.String())

	stamp := s.clock.Now()

	// ── 固定课表：从 from 之后的第一次上课开始每周重复 ──
	for _, rs := range schedules {
		sl, err := slotOf(rs.ScheduleID, rs.StartTime, rs.EndTime)
		if err != nil {
			return nil, "", err
		}
		first := conflict.NextOn(from, conflict.DayOfWeek(rs.DayOfWeek))

		evt := cal.AddEvent(eventUID("schedule", rs.ScheduleID))
		evt.SetDtStampTime(stamp)
		evt.SetStartAt(sl.Interval.Start.On(first))
		evt.SetEndAt(sl.Interval.End.On(first))
		evt.AddRrule("FREQ=WEEKLY")

		summary := rs.CourseID
		if rs.Course != nil {
			summary = rs.Course.Name
		}
		if rs.Group != nil {
			summary += "（" + rs.Group.Name + "）"
		}
		evt.SetSummary(summary)
		if rs.Classroom != nil {
			evt.SetLocation(rs.Classroom.Name)
		}
	}

	// ── 已批准约见 ──
	for _, m := range meetings {
		sl, err := slotOf(m.MeetingID, m.StartTime, m.EndTime)
		if err != nil {
			return nil, "", err
		}
		day := s.clock.InZone(m.Date())

		evt := cal.AddEvent(eventUID("meeting", m.MeetingID))
		evt.SetDtStampTime(stamp)
		evt.SetStartAt(sl.Interval.Start.On(day))
		evt.SetEndAt(sl.Interval.End.On(day))
		evt.SetSummary("约见：" + m.Purpose)
		if m.Student != nil {
			evt.SetDescription("学生：" + m.Student.Name)
		}
	}

	filename := fmt.Sprintf("teacher_%s.ics", teacherID)
	return []byte(cal.Serialize()), filename, nil
}
