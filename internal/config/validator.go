package config

import (
	"fmt"
	"reflect"
	"strings"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/pkg/cronx"
	"github.com/darkkaiser/armonik-samples/pkg/validation"
	"github.com/go-playground/validator/v10"
)

var defaultValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// 에러 메시지에 Go 필드명 대신 설정 파일의 키(json 태그)를 사용합니다.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("cron_spec", validateCronSpec); err != nil {
		panic(fmt.Sprintf("초기화 치명적 오류: 'cron_spec' 커스텀 유효성 검사 함수 등록에 실패했습니다: %v", err))
	}

	if err := v.RegisterValidation("cors_origin", validateCORSOrigin); err != nil {
		panic(fmt.Sprintf("초기화 치명적 오류: 'cors_origin' 커스텀 유효성 검사 함수 등록에 실패했습니다: %v", err))
	}

	return v
}

func validateCORSOrigin(fl validator.FieldLevel) bool {
	return validation.CORSOrigin(fl.Field().String()) == nil
}

func validateCronSpec(fl validator.FieldLevel) bool {
	return cronx.Validate(fl.Field().String()) == nil
}

// checkStruct 구조체를 검증하고, 첫 번째 위반 항목을 설정 키 경로와 함께 InvalidInput 에러로 반환합니다.
func checkStruct(v *validator.Validate, s any, contextName string) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		first := validationErrors[0]

		// "AppConfig.control_plane.endpoint" → "control_plane.endpoint"
		path := first.Namespace()
		if idx := strings.Index(path, "."); idx != -1 {
			path = path[idx+1:]
		}

		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s의 설정이 올바르지 않습니다: %s='%v' (조건: %s)", contextName, path, first.Value(), first.ActualTag()))
	}

	return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("%s 유효성 검증에 실패했습니다", contextName))
}
