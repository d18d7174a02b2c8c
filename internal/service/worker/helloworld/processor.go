// Package helloworld 페이로드를 그대로 첫 번째 출력 결과에 기록하는 hello-world 워커 애플리케이션입니다.
//
// 패키지를 blank import 하면 워커 서비스에 등록됩니다.
package helloworld

import (
	"context"

	"github.com/darkkaiser/armonik-samples/internal/config"
	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	"github.com/darkkaiser/armonik-samples/internal/service/worker"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
)

const component = "worker.helloworld"

// ApplicationName TaskOptions.ApplicationName으로 지정하는 애플리케이션 이름입니다.
const ApplicationName = "hello-world"

// ErrNoExpectedOutput 출력 결과가 지정되지 않은 Task에 반환됩니다.
var ErrNoExpectedOutput = apperrors.New(apperrors.InvalidInput, "출력 결과가 지정되지 않은 Task입니다")

func init() {
	worker.MustRegister(ApplicationName, func(*config.AppConfig) (contract.Processor, error) {
		return &Processor{}, nil
	})
}

type Processor struct{}

func (p *Processor) Execute(ctx context.Context, handler contract.TaskHandler) error {
	outputs := handler.ExpectedResults()
	if len(outputs) == 0 {
		return ErrNoExpectedOutput
	}

	payload := handler.Payload()

	applog.WithComponentAndFields(component, applog.Fields{
		"session_id": handler.SessionID(),
		"task_id":    handler.TaskID(),
		"payload":    string(payload),
	}).Info("Hello World 요청 처리")

	return handler.SendResult(ctx, outputs[0], payload)
}
