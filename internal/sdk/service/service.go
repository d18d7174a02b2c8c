// Package service SDK 방식 워커의 서비스 계층입니다.
//
// 서비스는 (네임스페이스, 이름)으로 등록되며, 세션마다 별도의 인스턴스가 만들어집니다.
// 인스턴스는 세션의 첫 Task에서 EnterSession이 호출되고, 세션이 닫히거나 워커가 종료될 때
// LeaveSession이 호출됩니다.
package service

import (
	"context"

	"github.com/darkkaiser/armonik-samples/internal/config"
	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
)

// Service SDK 서비스 인스턴스입니다. 한 인스턴스의 Call은 같은 세션의 여러 Task에서 동시에 호출될 수 있습니다.
type Service interface {
	EnterSession(ctx context.Context, sessionID contract.SessionID) error
	Call(ctx context.Context, method string, arguments []byte) ([]byte, error)
	LeaveSession(ctx context.Context, sessionID contract.SessionID) error
}

// NewServiceFunc 서비스 인스턴스를 생성하는 팩토리 함수입니다.
type NewServiceFunc func(appConfig *config.AppConfig) (Service, error)

// Base 세션 진입/이탈 시 할 일이 없는 서비스가 임베드합니다.
type Base struct{}

func (Base) EnterSession(context.Context, contract.SessionID) error { return nil }

func (Base) LeaveSession(context.Context, contract.SessionID) error { return nil }

// MethodFunc 서비스 메서드 하나의 구현입니다.
type MethodFunc func(ctx context.Context, arguments []byte) ([]byte, error)

// Methods 메서드 이름별 구현 목록으로 Call을 제공합니다.
type Methods map[string]MethodFunc

func (m Methods) Call(ctx context.Context, method string, arguments []byte) ([]byte, error) {
	fn, ok := m[method]
	if !ok {
		return nil, apperrors.Newf(apperrors.NotFound, "지원하지 않는 메서드입니다: '%s'", method)
	}
	return fn(ctx, arguments)
}
