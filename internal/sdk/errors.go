package sdk

import (
	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
)

var (
	// ErrNoPayload 제출할 페이로드가 없을 때 반환됩니다.
	ErrNoPayload = apperrors.New(apperrors.InvalidInput, "제출할 페이로드가 없습니다")

	// ErrNilHandler 응답 콜백이 지정되지 않았을 때 반환됩니다.
	ErrNilHandler = apperrors.New(apperrors.InvalidInput, "ServiceInvocationHandler는 nil일 수 없습니다")
)
