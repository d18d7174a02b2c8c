// Command hello-sdk-client SDK의 SessionService로 HelloService를 호출하는 샘플 클라이언트입니다.
package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/darkkaiser/armonik-samples/internal/bootstrap"
	"github.com/darkkaiser/armonik-samples/internal/cluster"
	"github.com/darkkaiser/armonik-samples/internal/config"
	"github.com/darkkaiser/armonik-samples/internal/sdk"
	"github.com/darkkaiser/armonik-samples/internal/sdk/service/hello"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
)

const (
	appName   = "hello-sdk-client"
	component = "hello.sdk_client"
)

func main() {
	appConfig, appLogCloser, err := bootstrap.Init(appName, bootstrap.KindClient)
	if err != nil {
		bootstrap.Fatal(err)
	}
	defer appLogCloser.Close()

	client, closeClient, err := cluster.Connect(appConfig)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{"error": err}).Error("컨트롤 플레인 연결 실패")
		return
	}
	defer closeClient()

	responses, err := run(context.Background(), appConfig, client, "Hello")
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{"error": err}).Error("HelloService 호출 실패")
		return
	}

	for _, r := range responses {
		fmt.Println(r)
	}
}

// run HelloService에 arguments를 보내고 응답을 모아 반환합니다.
func run(ctx context.Context, appConfig *config.AppConfig, client contract.Client, arguments string) ([]string, error) {
	props := sdk.NewProperties(appConfig, hello.ServiceName).WithService(hello.Namespace, hello.ServiceName)

	session, err := sdk.NewSessionService(ctx, client, props)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	var responses []string
	var taskErr error

	handler := sdk.HandlerFuncs{
		OnResponse: func(value []byte, taskID contract.TaskID) {
			applog.WithComponentAndFields(component, applog.Fields{
				"task_id":  taskID,
				"response": string(value),
			}).Info("HelloService 응답 수신")

			mu.Lock()
			defer mu.Unlock()
			responses = append(responses, string(value))
		},
		OnError: func(err error, taskID contract.TaskID) {
			applog.WithComponentAndFields(component, applog.Fields{
				"task_id": taskID,
				"error":   err,
			}).Error("HelloService Task 실패")

			mu.Lock()
			defer mu.Unlock()
			taskErr = err
		},
	}

	if _, err := session.Submit(ctx, []sdk.TaskPayload{{MethodName: "HelloWorld", Arguments: []byte(arguments)}}, handler); err != nil {
		return nil, err
	}
	if err := session.WaitResults(ctx); err != nil {
		return nil, err
	}
	if err := session.CloseSession(ctx); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{"error": err}).Warn("세션 종료 실패")
	}

	mu.Lock()
	defer mu.Unlock()
	if taskErr != nil {
		return nil, taskErr
	}
	return responses, nil
}
