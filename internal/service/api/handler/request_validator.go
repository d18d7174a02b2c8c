// Package handler API 핸들러가 공통으로 사용하는 요청 바인딩과 검증 기능을 제공합니다.
package handler

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/api/constants"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// 에러 메시지에는 JSON 필드명을 사용
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})

	return validate
}

// ValidateRequest 구조체의 validate 태그를 검사합니다.
func ValidateRequest(req any) error {
	return getValidator().Struct(req)
}

// BindAndValidate 요청 본문을 req에 바인딩하고 검증합니다. 실패하면 InvalidInput 에러를 반환합니다.
func BindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, constants.ErrMsgInvalidBody)
	}
	if err := ValidateRequest(req); err != nil {
		return apperrors.New(apperrors.InvalidInput, FormatValidationError(err))
	}
	return nil
}

// FormatValidationError 첫 번째 검증 실패를 사람이 읽을 수 있는 메시지로 변환합니다.
func FormatValidationError(err error) string {
	if err == nil {
		return ""
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return err.Error()
	}

	return formatFieldError(validationErrors[0])
}

func formatFieldError(fieldErr validator.FieldError) string {
	field := fieldErr.Field()

	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s는 필수입니다", field)
	case "min":
		if fieldErr.Kind() == reflect.Slice {
			return fmt.Sprintf("%s에는 최소 %s개 이상의 항목이 필요합니다", field, fieldErr.Param())
		}
		return fmt.Sprintf("%s는 최소 %s 이상이어야 합니다", field, fieldErr.Param())
	case "max", "lte":
		return fmt.Sprintf("%s는 최대 %s까지 입력 가능합니다", field, fieldErr.Param())
	case "gte":
		return fmt.Sprintf("%s는 %s 이상이어야 합니다", field, fieldErr.Param())
	default:
		return fmt.Sprintf("%s 검증 실패: %s", field, fieldErr.Tag())
	}
}
