// Package stress 스트레스 테스트용 합성 연산(ComputeWorkLoad)을 제공하는 SDK 서비스입니다.
package stress

import (
	"context"

	"github.com/darkkaiser/armonik-samples/internal/config"
	"github.com/darkkaiser/armonik-samples/internal/kernel"
	"github.com/darkkaiser/armonik-samples/internal/payload"
	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/sdk/service"
)

const (
	Namespace   = "Armonik.Samples.StressTests.Worker"
	ServiceName = "ServiceApps"

	// MethodComputeWorkLoad payload.ComputeArgs를 받아 float64 벡터를 반환하는 메서드입니다.
	MethodComputeWorkLoad = "ComputeWorkLoad"
)

// ErrInvalidWorkLoad 입력 벡터가 비었거나 출력 바이트 수가 0 이하일 때 반환됩니다.
var ErrInvalidWorkLoad = apperrors.New(apperrors.InvalidInput, "Cannot execute function with nb bytes <= 0")

func init() {
	service.MustRegister(Namespace, ServiceName, func(*config.AppConfig) (service.Service, error) {
		return New(), nil
	})
}

type Service struct {
	service.Base
	service.Methods
}

func New() *Service {
	return &Service{
		Methods: service.Methods{
			MethodComputeWorkLoad: computeWorkLoad,
		},
	}
}

func computeWorkLoad(_ context.Context, arguments []byte) ([]byte, error) {
	args, err := payload.DecodeComputeArgs(arguments)
	if err != nil {
		return nil, err
	}

	output, err := ComputeWorkLoad(args.Input, args.NbOutputBytes, int(args.WorkLoadTimeInMs))
	if err != nil {
		return nil, err
	}

	return payload.EncodeVector(output), nil
}

// ComputeWorkLoad 커널로 workLoadTimeInMs 동안 연산하여 nbOutputBytes/8개의 원소를 가진 벡터를 반환합니다.
//
// 각 원소는 입력 전체의 세제곱 합을 출력 원소 수로 나눈 값입니다. 스트레스 클라이언트의 입력
// 벡터는 세제곱 합이 42가 되도록 만들어지므로, Task 하나의 출력 합은 42입니다.
func ComputeWorkLoad(input []float64, nbOutputBytes int64, workLoadTimeInMs int) ([]float64, error) {
	if len(input) == 0 || nbOutputBytes <= 0 {
		return nil, ErrInvalidWorkLoad
	}

	r, err := kernel.Run(kernel.Request{
		Input:      input,
		WorkloadMs: workLoadTimeInMs,
		OutputSize: int(nbOutputBytes / payload.Float64Size),
		ReduceLen:  len(input),
	})
	if err != nil {
		return nil, err
	}
	return r.Output, nil
}
