package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"classroom-portal/internal/dto"
	"classroom-portal/internal/service"
	"classroom-portal/pkg/response"
)

// ScheduleHandler 课表模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// Create 新建每周课表
// POST /api/v1/schedules
func (h *ScheduleHandler) Create(c *gin.Context) {
	h.upsert(c, "")
}

// Update 更新课表，冲突检测时排除自身
// PUT /api/v1/schedules/:id
func (h *ScheduleHandler) Update(c *gin.Context) {
	h.upsert(c, c.Param("id"))
}

func (h *ScheduleHandler) upsert(c *gin.Context, id string) {
	var req dto.UpsertScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, 21001, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.scheduleSvc.Upsert(c.Request.Context(), &req, id, callerID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	if id == "" {
		response.Created(c, result)
		return
	}
	response.OK(c, result)
}

// Delete 删除课表
// DELETE /api/v1/schedules/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.scheduleSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, nil)
}

// ListByGroup 班级课表
// GET /api/v1/groups/:id/schedules
func (h *ScheduleHandler) ListByGroup(c *gin.Context) {
	list, err := h.scheduleSvc.ListByGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	if ce, ok := asConflict(err); ok {
		writeConflict(c, 21101, "与同教室同一天的已有课表时间重叠", ce)
		return
	}
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		labeled(c, http.StatusNotFound, 21102, "课表不存在", labelNotFound)
	case errors.Is(err, service.ErrClassroomNotFound):
		labeled(c, http.StatusNotFound, 21103, "教室不存在", labelNotFound)
	case errors.Is(err, service.ErrCourseNotFound):
		labeled(c, http.StatusNotFound, 21104, "课程不存在", labelNotFound)
	case errors.Is(err, service.ErrGroupNotFound):
		labeled(c, http.StatusNotFound, 21105, "班级不存在", labelNotFound)
	case errors.Is(err, service.ErrTeacherNotFound):
		labeled(c, http.StatusNotFound, 21106, "教师不存在", labelNotFound)
	case errors.Is(err, service.ErrInvalidTimeRange):
		labeled(c, http.StatusBadRequest, 21107, "开始时间必须早于结束时间", labelInvalidInput)
	case errors.Is(err, service.ErrInvalidDayOfWeek):
		labeled(c, http.StatusBadRequest, 21108, "星期取值必须为 1-7", labelInvalidInput)
	case errors.Is(err, service.ErrStoreUnavailable):
		response.ServiceUnavailable(c)
	default:
		response.InternalError(c)
	}
}
