package service

import (
	"context"
	"sync"
)

// Service 프로세스 수명 동안 실행되는 백그라운드 서비스입니다.
//
// 호출자는 Start 전에 serviceStopWG.Add(1)을 호출하며, 서비스는 종료가 끝나면
// (Start가 에러를 반환한 경우 포함) serviceStopWG.Done()을 한 번 호출합니다.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
