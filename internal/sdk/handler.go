package sdk

import (
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
)

// ServiceInvocationHandler Task 응답을 받는 콜백입니다.
// 한 SessionService 안에서는 콜백이 동시에 호출되지 않습니다.
type ServiceInvocationHandler interface {
	// HandleResponse Task가 성공했을 때 반환 값과 함께 호출됩니다.
	HandleResponse(value []byte, taskID contract.TaskID)

	// HandleError Task가 실패했을 때 호출됩니다. 세션 취소로 인한 실패는 apperrors.Canceled 유형입니다.
	HandleError(err error, taskID contract.TaskID)
}

// HandlerFuncs 함수 두 개로 ServiceInvocationHandler를 구성합니다. nil인 함수는 무시됩니다.
type HandlerFuncs struct {
	OnResponse func(value []byte, taskID contract.TaskID)
	OnError    func(err error, taskID contract.TaskID)
}

func (h HandlerFuncs) HandleResponse(value []byte, taskID contract.TaskID) {
	if h.OnResponse != nil {
		h.OnResponse(value, taskID)
	}
}

func (h HandlerFuncs) HandleError(err error, taskID contract.TaskID) {
	if h.OnError != nil {
		h.OnError(err, taskID)
	}
}
