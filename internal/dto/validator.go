package dto

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"classroom-portal/internal/conflict"
	"classroom-portal/internal/model"
)

// RegisterValidators 向 gin 的校验引擎注册自定义规则
//   - clock: "HH:MM" 或 "HH:MM:SS"，00:00-24:00
//   - classroom_type: 已知教室类型
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("gin 校验引擎类型异常: %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("clock", validateClock); err != nil {
		return err
	}
	return v.RegisterValidation("classroom_type", validateClassroomType)
}

func validateClock(fl validator.FieldLevel) bool {
	_, err := conflict.ParseClock(fl.Field().String())
	return err == nil
}

func validateClassroomType(fl validator.FieldLevel) bool {
	return model.ClassroomType(fl.Field().String()).Valid()
}

// FieldErrors 将校验错误展开为 字段→规则 的映射，便于前端定位
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
