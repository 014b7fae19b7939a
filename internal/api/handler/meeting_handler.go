package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"classroom-portal/internal/dto"
	"classroom-portal/internal/service"
	"classroom-portal/pkg/response"
)

// MeetingHandler 教师空闲与约见 HTTP 处理器
type MeetingHandler struct {
	meetingSvc service.MeetingService
}

// NewMeetingHandler 创建 MeetingHandler
func NewMeetingHandler(meetingSvc service.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetingSvc: meetingSvc}
}

// CheckAvailability 查询教师某时段是否空闲
// GET /api/v1/teachers/:id/availability?date=&start_time=&end_time=
func (h *MeetingHandler) CheckAvailability(c *gin.Context) {
	var req dto.AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, 23001, err)
		return
	}

	result, err := h.meetingSvc.CheckAvailability(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleMeetingError(c, err)
		return
	}
	response.OK(c, result)
}

// Create 学生发起约见
// POST /api/v1/meetings
func (h *MeetingHandler) Create(c *gin.Context) {
	var req dto.CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, 23001, err)
		return
	}
	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.meetingSvc.Schedule(c.Request.Context(), &req, studentID)
	if err != nil {
		h.handleMeetingError(c, err)
		return
	}
	response.Created(c, result)
}

// Get 约见详情；仅约见双方与管理员可见
// GET /api/v1/meetings/:id
func (h *MeetingHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	result, err := h.meetingSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleMeetingError(c, err)
		return
	}
	if role != "admin" && result.TeacherID != userID && result.StudentID != userID {
		labeled(c, http.StatusForbidden, 23110, "无权查看他人的约见", labelForbidden)
		return
	}
	response.OK(c, result)
}

// List 约见列表：教师看自己被约的，学生看自己发起的，管理员不限
// GET /api/v1/meetings
func (h *MeetingHandler) List(c *gin.Context) {
	var req dto.MeetingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, 23001, err)
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
	switch role {
	case "teacher":
		req.TeacherID = userID
	case "student":
		req.StudentID = userID
	}

	list, total, err := h.meetingSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleMeetingError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// UpdateStatus 审批约见（被约教师或管理员）
// PUT /api/v1/meetings/:id/status
func (h *MeetingHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, 23001, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	result, err := h.meetingSvc.UpdateStatus(c.Request.Context(), c.Param("id"), &req, callerID, role)
	if err != nil {
		h.handleMeetingError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *MeetingHandler) handleMeetingError(c *gin.Context, err error) {
	if ce, ok := asConflict(err); ok {
		writeConflict(c, 23101, "教师该时段不可用", ce)
		return
	}
	switch {
	case errors.Is(err, service.ErrPastDate):
		labeled(c, http.StatusUnprocessableEntity, 23102, "不能约见过去的日期", labelPastDate)
	case errors.Is(err, service.ErrMeetingNotFound):
		labeled(c, http.StatusNotFound, 23103, "约见申请不存在", labelNotFound)
	case errors.Is(err, service.ErrTeacherNotFound):
		labeled(c, http.StatusNotFound, 23104, "教师不存在", labelNotFound)
	case errors.Is(err, service.ErrMeetingForbidden):
		labeled(c, http.StatusForbidden, 23105, "只有被约见教师或管理员可以审批", labelForbidden)
	case errors.Is(err, service.ErrInvalidTransition):
		labeled(c, http.StatusConflict, 23106, "约见已处理，状态不可再变更", labelInvalidTransition)
	case errors.Is(err, service.ErrInvalidTimeRange):
		labeled(c, http.StatusBadRequest, 23107, "开始时间必须早于结束时间", labelInvalidInput)
	case errors.Is(err, service.ErrInvalidDate):
		labeled(c, http.StatusBadRequest, 23108, "日期格式无效", labelInvalidInput)
	case errors.Is(err, service.ErrInvalidStatus):
		labeled(c, http.StatusBadRequest, 23109, "目标状态只能是 approved 或 rejected", labelInvalidInput)
	case errors.Is(err, service.ErrStoreUnavailable):
		response.ServiceUnavailable(c)
	default:
		response.InternalError(c)
	}
}
