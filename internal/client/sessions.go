package client

import (
	"context"
	"net/http"

	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/api/v1/model"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	"github.com/tidwall/gjson"
)

// CreateSession contract.SessionsClient 구현입니다. 중복 생성을 피하기 위해 재시도하지 않습니다.
func (c *Client) CreateSession(ctx context.Context, defaultOptions contract.TaskOptions, partitionIDs []string) (contract.SessionID, error) {
	req, err := jsonRequest(http.MethodPost, "/api/v1/sessions", model.CreateSessionRequest{
		DefaultOptions: defaultOptions,
		PartitionIDs:   partitionIDs,
	}, false)
	if err != nil {
		return "", err
	}

	body, err := c.do(ctx, req)
	if err != nil {
		return "", err
	}

	id := gjson.GetBytes(body, "session_id").String()
	if id == "" {
		return "", apperrors.New(apperrors.ParsingFailed, "세션 생성 응답에 session_id가 없습니다")
	}
	return contract.SessionID(id), nil
}

func (c *Client) GetSession(ctx context.Context, sessionID contract.SessionID) (contract.SessionInfo, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: sessionPath(sessionID, ""), idempotent: true})
	if err != nil {
		return contract.SessionInfo{}, err
	}

	var info contract.SessionInfo
	if err := decodeJSON(body, &info); err != nil {
		return contract.SessionInfo{}, err
	}
	return info, nil
}

// CancelSession 취소는 여러 번 요청해도 결과가 같으므로 재시도합니다.
func (c *Client) CancelSession(ctx context.Context, sessionID contract.SessionID) error {
	_, err := c.do(ctx, request{method: http.MethodPost, path: sessionPath(sessionID, "/cancel"), idempotent: true})
	return err
}

func (c *Client) CloseSession(ctx context.Context, sessionID contract.SessionID) error {
	_, err := c.do(ctx, request{method: http.MethodPost, path: sessionPath(sessionID, "/close"), idempotent: true})
	return err
}
