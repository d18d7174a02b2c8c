package kernel

import (
	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
)

// ErrInvalidArgument 입력 벡터가 비어 있거나 출력 크기가 0 이하일 때 반환됩니다.
// 재시도 대상이 아니며, 이 경우 출력 버퍼는 할당되지 않습니다.
var ErrInvalidArgument = apperrors.New(apperrors.InvalidInput, "Cannot execute function with nb element <= 0")
