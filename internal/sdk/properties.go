package sdk

import (
	"github.com/darkkaiser/armonik-samples/internal/config"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
)

// EngineTypeUnified SDK 방식 Task의 엔진 유형입니다.
const EngineTypeUnified = "Unified"

// Properties SessionService가 세션을 만들 때 사용하는 설정입니다.
type Properties struct {
	Options      contract.TaskOptions
	PartitionIDs []string
}

// NewProperties 설정의 기본 Task 옵션과 워커 라이브러리 정보로 serviceName 서비스를 호출하는 Properties를 만듭니다.
func NewProperties(appConfig *config.AppConfig, serviceName string) Properties {
	return Properties{
		Options: contract.TaskOptions{
			MaxDuration:          appConfig.TaskOptions.MaxDuration,
			MaxRetries:           appConfig.TaskOptions.MaxRetries,
			Priority:             appConfig.TaskOptions.Priority,
			PartitionID:          appConfig.PartitionID,
			ApplicationName:      appConfig.WorkerLib.Name,
			ApplicationVersion:   appConfig.WorkerLib.Version,
			ApplicationNamespace: appConfig.WorkerLib.Namespace,
			ApplicationService:   serviceName,
			EngineType:           EngineTypeUnified,
		},
		PartitionIDs: []string{appConfig.PartitionID},
	}
}

// WithPartition 파티션을 지정한 복사본을 반환합니다. 빈 값이면 그대로 반환합니다.
func (p Properties) WithPartition(partitionID string) Properties {
	if partitionID == "" {
		return p
	}
	p.Options.PartitionID = partitionID
	p.PartitionIDs = []string{partitionID}
	return p
}

// WithService 호출할 서비스(네임스페이스, 이름)를 바꾼 복사본을 반환합니다.
func (p Properties) WithService(namespace, serviceName string) Properties {
	p.Options.ApplicationNamespace = namespace
	p.Options.ApplicationService = serviceName
	return p
}
