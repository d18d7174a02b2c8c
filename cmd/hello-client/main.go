// Command hello-client hello-world 워커에 "hello"를 보내고 되돌려 받은 결과를 출력합니다.
//
// control_plane.endpoint가 비어 있으면 같은 프로세스에 로컬 플랫폼을 띄워 실행합니다.
package main

import (
	"context"
	"fmt"

	"github.com/darkkaiser/armonik-samples/internal/bootstrap"
	"github.com/darkkaiser/armonik-samples/internal/cluster"
	"github.com/darkkaiser/armonik-samples/internal/config"
	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	"github.com/darkkaiser/armonik-samples/internal/service/worker/helloworld"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
)

const (
	appName   = "hello-client"
	component = "hello.client"
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

	result, err := run(context.Background(), appConfig, client, []byte("hello"))
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{"error": err}).Error("hello-world 실행 실패")
		return
	}

	fmt.Println(string(result))
}

// run 세션 하나에서 Task 하나를 실행하고 출력 결과를 반환합니다.
func run(ctx context.Context, appConfig *config.AppConfig, client contract.Client, payload []byte) ([]byte, error) {
	sessionID, err := client.CreateSession(ctx, contract.TaskOptions{
		MaxDuration:     appConfig.TaskOptions.MaxDuration,
		MaxRetries:      appConfig.TaskOptions.MaxRetries,
		Priority:        appConfig.TaskOptions.Priority,
		PartitionID:     appConfig.PartitionID,
		ApplicationName: helloworld.ApplicationName,
	}, []string{appConfig.PartitionID})
	if err != nil {
		return nil, err
	}

	logger := applog.WithComponentAndFields(component, applog.Fields{"session_id": sessionID})
	logger.Info("세션 생성 완료")

	results, err := client.CreateResultsMetadata(ctx, sessionID, []string{"output", "payload"})
	if err != nil {
		return nil, err
	}
	outputID, payloadID := results[0].ID, results[1].ID

	if err := client.UploadResultData(ctx, sessionID, payloadID, payload); err != nil {
		return nil, err
	}

	tasks, err := client.SubmitTasks(ctx, sessionID, []contract.TaskCreation{{
		PayloadID:       payloadID,
		ExpectedOutputs: []contract.ResultID{outputID},
	}})
	if err != nil {
		return nil, err
	}
	logger.WithField("task_id", tasks[0].TaskID).Info("Task 제출 완료")

	if err := client.WaitForResultsAvailability(ctx, sessionID, []contract.ResultID{outputID}); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ExecutionFailed, "결과 대기 중 오류가 발생했습니다")
	}

	data, err := client.DownloadResultData(ctx, sessionID, outputID)
	if err != nil {
		return nil, err
	}
	logger.WithField("result", string(data)).Info("결과 수신 완료")

	if err := client.CloseSession(ctx, sessionID); err != nil {
		logger.WithField("error", err).Warn("세션 종료 실패")
	}

	return data, nil
}
