package handler

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"classroom-portal/internal/dto"
	"classroom-portal/internal/service"
	"classroom-portal/pkg/response"
)

// 错误标签，写入 data.error
const (
	labelInvalidInput      = "invalid_input"
	labelNotFound          = "not_found"
	labelPastDate          = "past_date"
	labelInvalidTransition = "invalid_transition"
	labelForbidden         = "forbidden"
	labelInUse             = "in_use"
	labelDuplicate         = "duplicate"
)

// bindError 参数绑定 / 校验失败，details 列出字段与未通过的规则
func bindError(c *gin.Context, code int, err error) {
	fields := dto.FieldErrors(err)
	if len(fields) == 0 {
		response.ErrorWithDetails(c, http.StatusBadRequest, code, "参数校验失败", "请求格式无效")
		return
	}
	parts := make([]string, 0, len(fields))
	for f, tag := range fields {
		parts = append(parts, fmt.Sprintf("%s:%s", f, tag))
	}
	sort.Strings(parts)
	response.ErrorWithDetails(c, http.StatusBadRequest, code, "参数校验失败", strings.Join(parts, "; "))
}

func labeled(c *gin.Context, status, code int, message, label string) {
	response.ErrorWithData(c, status, code, message, response.ErrorLabel{Error: label})
}

// writeConflict 409，data 携带冲突对象；教师不可用时附带完整空闲查询结果
func writeConflict(c *gin.Context, code int, message string, ce *service.ConflictError) {
	data := response.ErrorLabel{
		Error:         string(ce.Kind),
		ConflictingID: ce.ConflictingID,
		StartTime:     ce.StartTime,
		EndTime:       ce.EndTime,
	}
	if ce.Availability != nil {
		data.Detail = ce.Availability
	}
	response.Conflict(c, code, message, data)
}

// asConflict 提取 ConflictError
func asConflict(err error) (*service.ConflictError, bool) {
	var ce *service.ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
