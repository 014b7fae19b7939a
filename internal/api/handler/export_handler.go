package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"classroom-portal/internal/service"
	"classroom-portal/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc   service.ExportService
	calendarSvc service.CalendarService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService, calendarSvc service.CalendarService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, calendarSvc: calendarSvc}
}

// ExportClassroomWeek 导出教室周占用表
// GET /api/v1/export/classrooms/:id/week?date=
func (h *ExportHandler) ExportClassroomWeek(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportClassroomWeek(c.Request.Context(), c.Param("id"), c.Query("date"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

// ExportTeacherCalendar 导出教师日历订阅
// GET /api/v1/export/teachers/:id/calendar.ics?from=
func (h *ExportHandler) ExportTeacherCalendar(c *gin.Context) {
	data, filename, err := h.calendarSvc.ExportTeacherCalendar(c.Request.Context(), c.Param("id"), c.Query("from"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, contentTypeICS, data)
}

// attachment 设置下载响应头
func attachment(c *gin.Context, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClassroomNotFound):
		labeled(c, http.StatusNotFound, 24101, "教室不存在", labelNotFound)
	case errors.Is(err, service.ErrTeacherNotFound):
		labeled(c, http.StatusNotFound, 24102, "教师不存在", labelNotFound)
	case errors.Is(err, service.ErrInvalidDate):
		labeled(c, http.StatusBadRequest, 24103, "日期格式无效", labelInvalidInput)
	case errors.Is(err, service.ErrStoreUnavailable):
		response.ServiceUnavailable(c)
	default:
		// 含 ErrExportGenerateFail
		response.InternalError(c)
	}
}
