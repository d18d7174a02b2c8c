// Package errors 타입 기반 에러 분류와 체이닝을 제공합니다.
//
// 모든 에러는 ErrorType으로 분류되며, API 계층은 이 분류를 HTTP 상태 코드로,
// SDK 계층은 핸들러 콜백(HandleError)의 분기 기준으로 사용합니다.
//
//	err := errors.New(errors.InvalidInput, "출력 크기는 0보다 커야 합니다")
//	if err != nil {
//	    return errors.Wrap(err, errors.ExecutionFailed, "ComputeWorkLoad 실행 실패")
//	}
//	errors.Is(err, errors.InvalidInput)  // true
//	errors.UnderlyingType(err)           // InvalidInput
//
// Wrap 시에는 가능하면 원인의 타입을 유지하고, 외부 에러는 성격에 맞는 타입으로 분류합니다.
// (context.DeadlineExceeded → Timeout, context.Canceled → Canceled, net.Error → System)
package errors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// AppError 애플리케이션 전역에서 사용하는 표준 에러입니다.
type AppError struct {
	errType ErrorType
	message string
	cause   error
	stack   []StackFrame
}

// Type 에러의 타입을 반환합니다.
func (e *AppError) Type() ErrorType {
	return e.errType
}

// Message 원인을 제외한 에러 메시지를 반환합니다.
func (e *AppError) Message() string {
	return e.message
}

// Stack 에러 생성 시점의 호출 스택을 반환합니다.
func (e *AppError) Stack() []StackFrame {
	return e.stack
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.errType, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.errType, e.message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Format %+v로 출력하면 스택과 원인 체인을 함께 출력합니다.
//
// 스택은 체인의 끝(원인이 없거나 원인이 AppError가 아닌 경우)에서만 출력하여 중복을 피합니다.
func (e *AppError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "[%s] %s", e.errType, e.message)

			var target *AppError
			if e.cause == nil || !errors.As(e.cause, &target) {
				if len(e.stack) > 0 {
					fmt.Fprint(s, "\nStack trace:")
					for _, frame := range e.stack {
						fn := frame.Function
						if idx := strings.LastIndex(fn, "/"); idx != -1 {
							fn = fn[idx+1:]
						}
						fmt.Fprintf(s, "\n\t%s:%d %s", frame.File, frame.Line, fn)
					}
				}
			}

			if e.cause != nil {
				fmt.Fprint(s, "\nCaused by:\n")
				if f, ok := e.cause.(fmt.Formatter); ok {
					f.Format(s, verb)
				} else {
					fmt.Fprintf(s, "\t%v", e.cause)
				}
			}
			return
		}
		fallthrough
	case 's':
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

// New 새로운 에러를 생성합니다.
func New(errType ErrorType, message string) error {
	return &AppError{
		errType: errType,
		message: message,
		stack:   captureStack(defaultCallerSkip),
	}
}

// Newf 포맷 문자열로 새로운 에러를 생성합니다.
func Newf(errType ErrorType, format string, args ...any) error {
	return &AppError{
		errType: errType,
		message: fmt.Sprintf(format, args...),
		stack:   captureStack(defaultCallerSkip),
	}
}

// Wrap 기존 에러에 컨텍스트를 덧붙입니다. err이 nil이면 nil을 반환합니다.
func Wrap(err error, errType ErrorType, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		errType: errType,
		message: message,
		cause:   err,
		stack:   captureStack(defaultCallerSkip),
	}
}

// Wrapf 포맷 문자열로 기존 에러에 컨텍스트를 덧붙입니다.
func Wrapf(err error, errType ErrorType, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &AppError{
		errType: errType,
		message: fmt.Sprintf(format, args...),
		cause:   err,
		stack:   captureStack(defaultCallerSkip),
	}
}

// Is 에러 체인에 주어진 ErrorType의 AppError가 있는지 확인합니다.
func Is(err error, errType ErrorType) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.errType == errType {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// As errors.As의 별칭입니다.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// RootCause 체인의 가장 안쪽 에러를 반환합니다.
func RootCause(err error) error {
	if err == nil {
		return nil
	}
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}
		err = unwrapped
	}
}

// UnderlyingType 체인에서 가장 안쪽에 있는 AppError의 타입을 반환합니다.
// 체인에 AppError가 없으면 Unknown입니다.
//
//	err := Wrap(New(NotFound, "결과 없음"), ExecutionFailed, "다운로드 실패")
//	UnderlyingType(err) // NotFound
func UnderlyingType(err error) ErrorType {
	t := Unknown
	for err != nil {
		if appErr, ok := err.(*AppError); ok {
			t = appErr.errType
		}
		err = errors.Unwrap(err)
	}
	return t
}

// Classify 외부 에러를 AppError로 분류하여 감쌉니다.
// 이미 AppError를 포함한 체인은 그대로 반환합니다.
func Classify(err error, message string) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	errType := Unknown
	switch {
	case errors.Is(err, context.Canceled):
		errType = Canceled
	case errors.Is(err, context.DeadlineExceeded):
		errType = Timeout
	}

	return &AppError{
		errType: errType,
		message: message,
		cause:   err,
		stack:   captureStack(defaultCallerSkip),
	}
}
