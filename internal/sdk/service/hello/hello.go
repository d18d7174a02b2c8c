// Package hello 입력 뒤에 " World!"를 붙여 돌려주는 SDK 샘플 서비스입니다.
package hello

import (
	"context"

	"github.com/darkkaiser/armonik-samples/internal/config"
	"github.com/darkkaiser/armonik-samples/internal/sdk/service"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
)

const component = "sdk.hello"

const (
	Namespace   = "Examples"
	ServiceName = "HelloService"
)

func init() {
	service.MustRegister(Namespace, ServiceName, func(*config.AppConfig) (service.Service, error) {
		return &Service{}, nil
	})
}

type Service struct{}

func (s *Service) EnterSession(_ context.Context, sessionID contract.SessionID) error {
	applog.WithComponentAndFields(component, applog.Fields{"session_id": sessionID}).Info("HelloService 세션 진입")
	return nil
}

// Call 메서드 이름과 관계없이 입력에 " World!"를 붙여 반환합니다.
func (s *Service) Call(_ context.Context, method string, arguments []byte) ([]byte, error) {
	applog.WithComponentAndFields(component, applog.Fields{"method": method}).Debug("HelloService 메서드 호출")
	return append(append([]byte{}, arguments...), " World!"...), nil
}

func (s *Service) LeaveSession(_ context.Context, sessionID contract.SessionID) error {
	applog.WithComponentAndFields(component, applog.Fields{"session_id": sessionID}).Info("HelloService 세션 이탈")
	return nil
}
