package handler

import "classroom-portal/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth        *AuthHandler
	Classroom   *ClassroomHandler
	Schedule    *ScheduleHandler
	Reservation *ReservationHandler
	Meeting     *MeetingHandler
	Export      *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth),
		Classroom:   NewClassroomHandler(svc.Classroom, svc.Reservation),
		Schedule:    NewScheduleHandler(svc.Schedule),
		Reservation: NewReservationHandler(svc.Reservation),
		Meeting:     NewMeetingHandler(svc.Meeting),
		Export:      NewExportHandler(svc.Export, svc.Calendar),
	}
}
