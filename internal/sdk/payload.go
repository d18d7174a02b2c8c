// Package sdk 메서드 이름과 인자로 Task를 제출하고 응답을 콜백으로 받는 SDK 방식의 클라이언트입니다.
//
// 워커 쪽 구현은 sdk/service 패키지에 있습니다.
package sdk

import (
	"encoding/json"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
)

// TaskPayload SDK Task의 페이로드입니다. 워커는 MethodName으로 호출할 메서드를 선택합니다.
type TaskPayload struct {
	MethodName string `json:"method_name"`
	Arguments  []byte `json:"arguments"`
}

func (p TaskPayload) Encode() ([]byte, error) {
	if p.MethodName == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "메서드 이름은 필수입니다")
	}

	b, err := json.Marshal(p)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "페이로드 직렬화에 실패했습니다")
	}
	return b, nil
}

func DecodeTaskPayload(b []byte) (TaskPayload, error) {
	var p TaskPayload
	if err := json.Unmarshal(b, &p); err != nil {
		return TaskPayload{}, apperrors.Wrap(err, apperrors.ParsingFailed, "페이로드 역직렬화에 실패했습니다")
	}
	if p.MethodName == "" {
		return TaskPayload{}, apperrors.New(apperrors.ParsingFailed, "페이로드에 메서드 이름이 없습니다")
	}
	return p, nil
}
