package service

import (
	"time"

	"go.uber.org/zap"

	"classroom-portal/config"
	"classroom-portal/internal/repository"
	"classroom-portal/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth        AuthService
	Classroom   ClassroomService
	Schedule    ScheduleService
	Reservation ReservationService
	Meeting     MeetingService
	Export      ExportService
	Calendar    CalendarService
}

// NewService 创建 Service 聚合
// "今天"按 app.timezone 判定；blacklist 可为 nil（Redis 不可用时降级）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		// Validate 已校验过时区，这里仅兜底
		logger.Warn("加载业务时区失败，使用本地时区", zap.String("timezone", cfg.App.Timezone), zap.Error(err))
		loc = time.Local
	}
	clock := NewClock(loc)

	return &Service{
		Auth:        NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		Classroom:   NewClassroomService(repo, logger),
		Schedule:    NewScheduleService(repo, logger),
		Reservation: NewReservationService(repo, clock, logger),
		Meeting:     NewMeetingService(repo, clock, logger),
		Export:      NewExportService(repo, clock, logger),
		Calendar:    NewCalendarService(repo, clock, logger),
	}
}
