package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"classroom-portal/internal/dto"
	"classroom-portal/internal/service"
	"classroom-portal/pkg/response"
)

// ClassroomHandler 教室模块 HTTP 处理器
type ClassroomHandler struct {
	classroomSvc   service.ClassroomService
	reservationSvc service.ReservationService
}

// NewClassroomHandler 创建 ClassroomHandler
func NewClassroomHandler(classroomSvc service.ClassroomService, reservationSvc service.ReservationService) *ClassroomHandler {
	return &ClassroomHandler{classroomSvc: classroomSvc, reservationSvc: reservationSvc}
}

// Create 新建教室
// POST /api/v1/classrooms
func (h *ClassroomHandler) Create(c *gin.Context) {
	var req dto.CreateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, 20001, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	room, err := h.classroomSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleClassroomError(c, err)
		return
	}

	response.Created(c, room)
}

// Get 教室详情
// GET /api/v1/classrooms/:id
func (h *ClassroomHandler) Get(c *gin.Context) {
	room, err := h.classroomSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleClassroomError(c, err)
		return
	}
	response.OK(c, room)
}

// List 教室列表
// GET /api/v1/classrooms?type=
func (h *ClassroomHandler) List(c *gin.Context) {
	var req dto.ClassroomListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, 20001, err)
		return
	}

	rooms, err := h.classroomSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleClassroomError(c, err)
		return
	}
	response.OK(c, gin.H{"list": rooms})
}

// Update 更新教室
// PUT /api/v1/classrooms/:id
func (h *ClassroomHandler) Update(c *gin.Context) {
	var req dto.UpdateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, 20001, err)
		return
	}
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	room, err := h.classroomSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleClassroomError(c, err)
		return
	}
	response.OK(c, room)
}

// Delete 删除教室（存在引用时拒绝）
// DELETE /api/v1/classrooms/:id
func (h *ClassroomHandler) Delete(c *gin.Context) {
	if err := h.classroomSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleClassroomError(c, err)
		return
	}
	response.OK(c, nil)
}

// ListConflicts 某天待审批预约的两两冲突
// GET /api/v1/classrooms/:id/conflicts?date=
func (h *ClassroomHandler) ListConflicts(c *gin.Context) {
	var q dto.ConflictQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, 22001, err)
		return
	}

	items, err := h.reservationSvc.ListConflicts(c.Request.Context(), c.Param("id"), q.Date)
	if err != nil {
		handleReservationError(c, err)
		return
	}
	response.OK(c, gin.H{"list": items})
}

func (h *ClassroomHandler) handleClassroomError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClassroomNotFound):
		labeled(c, http.StatusNotFound, 20101, "教室不存在", labelNotFound)
	case errors.Is(err, service.ErrClassroomNameExists):
		labeled(c, http.StatusConflict, 20102, "教室名称已存在", labelDuplicate)
	case errors.Is(err, service.ErrClassroomInUse):
		labeled(c, http.StatusConflict, 20103, "教室仍被课表或有效预约引用，无法删除", labelInUse)
	case errors.Is(err, service.ErrInvalidClassroom):
		labeled(c, http.StatusBadRequest, 20104, "教室类型无效", labelInvalidInput)
	case errors.Is(err, service.ErrStoreUnavailable):
		response.ServiceUnavailable(c)
	default:
		response.InternalError(c)
	}
}
