package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/model"
)

// 与 gin 共用 binding 标签，HTTP 绑定与非 HTTP 入口（如 Excel 导入）执行同一套校验
const tagName = "binding"

var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// New 创建独立的校验器实例
func New() *validator.Validate {
	v := validator.New()
	v.SetTagName(tagName)
	register(v)
	return v
}

// RegisterGin 在 gin 默认校验引擎上注册自定义规则
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin 校验引擎不是 validator/v10")
	}
	register(v)
	return nil
}

func register(v *validator.Validate) {
	// 错误字段使用 json 名称，便于前端定位表单项
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return model.Weekday(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmmPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("level_name", func(fl validator.FieldLevel) bool {
		return model.LevelName(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("semester_term", func(fl validator.FieldLevel) bool {
		return model.SemesterTerm(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("entry_status", func(fl validator.FieldLevel) bool {
		return model.EntryStatus(fl.Field().String()).IsValid()
	})
}

// FieldError 提取第一个字段级错误，返回字段名（json 名称，切片元素去掉下标）与可读信息
func FieldError(err error) (field, message string, ok bool) {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return "", "", false
	}
	fe := ves[0]
	field = fe.Field()
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	return field, describe(field, fe), true
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at most %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid identifier", field)
	case "weekday":
		return fmt.Sprintf("%s must be a weekday (monday to friday)", field)
	case "hhmm":
		return fmt.Sprintf("%s must be in HH:MM format", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
