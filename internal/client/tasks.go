package client

import (
	"context"
	"net/http"

	"github.com/darkkaiser/armonik-samples/internal/service/api/v1/model"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
)

// SubmitTasks 같은 Task가 두 번 제출되지 않도록 재시도하지 않습니다.
func (c *Client) SubmitTasks(ctx context.Context, sessionID contract.SessionID, tasks []contract.TaskCreation) ([]contract.TaskInfo, error) {
	req, err := jsonRequest(http.MethodPost, sessionPath(sessionID, "/tasks"), model.SubmitTasksRequest{Tasks: tasks}, false)
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}

	var resp model.SubmitTasksResponse
	if err := decodeJSON(body, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *Client) ListTasks(ctx context.Context, sessionID contract.SessionID) ([]contract.TaskDetailed, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: sessionPath(sessionID, "/tasks"), idempotent: true})
	if err != nil {
		return nil, err
	}

	var resp model.ListTasksResponse
	if err := decodeJSON(body, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}
