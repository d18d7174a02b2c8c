package client

import (
	"context"
	"net/http"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/api/v1/model"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	"github.com/tidwall/gjson"
)

// WaitForResultsAvailability long polling으로 결과가 모두 Completed가 될 때까지 대기합니다.
//
// 요청 하나는 서버에서 최대 waitPollTimeout 동안 보류되며, completed=false 응답을 받으면 다시 요청합니다.
func (c *Client) WaitForResultsAvailability(ctx context.Context, sessionID contract.SessionID, resultIDs []contract.ResultID) error {
	req, err := jsonRequest(http.MethodPost, sessionPath(sessionID, "/events/wait"), model.WaitRequest{
		ResultIDs: resultIDs,
		TimeoutMs: c.waitPollTimeout.Milliseconds(),
	}, true)
	if err != nil {
		return err
	}

	for {
		body, err := c.do(ctx, req)
		if err != nil {
			return err
		}

		if gjson.GetBytes(body, "completed").Bool() {
			return nil
		}

		if ctx.Err() != nil {
			return apperrors.Classify(ctx.Err(), "결과 대기가 중단되었습니다")
		}
	}
}
