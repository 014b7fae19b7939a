package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"classroom-portal/internal/dto"
	"classroom-portal/internal/service"
	"classroom-portal/pkg/response"
)

// ReservationHandler 预约模块 HTTP 处理器
type ReservationHandler struct {
	reservationSvc service.ReservationService
}

// NewReservationHandler 创建 ReservationHandler
func NewReservationHandler(reservationSvc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationSvc: reservationSvc}
}

// Create 提交教室预约
// POST /api/v1/reservations
func (h *ReservationHandler) Create(c *gin.Context) {
	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, 22001, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.reservationSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleReservationError(c, err)
		return
	}

	response.Created(c, result)
}

// Get 预约详情；非管理员只能查看自己的预约
// GET /api/v1/reservations/:id
func (h *ReservationHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	result, err := h.reservationSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleReservationError(c, err)
		return
	}
	if role != "admin" && result.UserID != userID {
		labeled(c, http.StatusForbidden, 22110, "无权查看他人的预约", labelForbidden)
		return
	}
	response.OK(c, result)
}

// List 预约列表；非管理员只能看到自己的预约
// GET /api/v1/reservations
func (h *ReservationHandler) List(c *gin.Context) {
	var req dto.ReservationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, 22001, err)
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	if role != "admin" {
		req.UserID = userID
	}

	list, total, err := h.reservationSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleReservationError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// UpdateStatus 审批预约；批准时返回被连带拒绝的预约
// PUT /api/v1/reservations/:id/status
func (h *ReservationHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, 22001, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.reservationSvc.UpdateStatus(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleReservationError(c, err)
		return
	}
	response.OK(c, result)
}

func handleReservationError(c *gin.Context, err error) {
	if ce, ok := asConflict(err); ok {
		msg := "与已有预约时间冲突"
		code := 22102
		if ce.Kind == service.KindScheduleConflict {
			msg = "与固定课表时间冲突"
			code = 22101
		}
		writeConflict(c, code, msg, ce)
		return
	}
	switch {
	case errors.Is(err, service.ErrPastDate):
		labeled(c, http.StatusUnprocessableEntity, 22103, "不能预约过去的日期", labelPastDate)
	case errors.Is(err, service.ErrReservationNotFound):
		labeled(c, http.StatusNotFound, 22104, "预约不存在", labelNotFound)
	case errors.Is(err, service.ErrInvalidTransition):
		labeled(c, http.StatusConflict, 22105, "预约已处理，状态不可再变更", labelInvalidTransition)
	case errors.Is(err, service.ErrInvalidTimeRange):
		labeled(c, http.StatusBadRequest, 22106, "开始时间必须早于结束时间", labelInvalidInput)
	case errors.Is(err, service.ErrInvalidDate):
		labeled(c, http.StatusBadRequest, 22107, "日期格式无效", labelInvalidInput)
	case errors.Is(err, service.ErrClassroomNotFound):
		labeled(c, http.StatusNotFound, 22108, "教室不存在", labelNotFound)
	case errors.Is(err, service.ErrInvalidStatus):
		labeled(c, http.StatusBadRequest, 22109, "目标状态只能是 approved 或 rejected", labelInvalidInput)
	case errors.Is(err, service.ErrStoreUnavailable):
		response.ServiceUnavailable(c)
	default:
		response.InternalError(c)
	}
}
