package client

import (
	"context"
	"net/http"

	"github.com/darkkaiser/armonik-samples/internal/service/api/v1/model"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
)

func (c *Client) CreateResultsMetadata(ctx context.Context, sessionID contract.SessionID, names []string) ([]contract.Result, error) {
	req, err := jsonRequest(http.MethodPost, sessionPath(sessionID, "/results"), model.CreateResultsMetadataRequest{Names: names}, false)
	if err != nil {
		return nil, err
	}
	return c.createResults(ctx, req)
}

func (c *Client) CreateResults(ctx context.Context, sessionID contract.SessionID, items []contract.NamedData) ([]contract.Result, error) {
	req, err := jsonRequest(http.MethodPost, sessionPath(sessionID, "/results/data"), model.CreateResultsRequest{Items: items}, false)
	if err != nil {
		return nil, err
	}
	return c.createResults(ctx, req)
}

func (c *Client) createResults(ctx context.Context, req request) ([]contract.Result, error) {
	body, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}

	var resp model.ResultsResponse
	if err := decodeJSON(body, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// UploadResultData 데이터는 변환 없이 application/octet-stream으로 전송합니다.
func (c *Client) UploadResultData(ctx context.Context, sessionID contract.SessionID, resultID contract.ResultID, data []byte) error {
	if data == nil {
		data = []byte{}
	}

	_, err := c.do(ctx, request{
		method:      http.MethodPut,
		path:        resultPath(sessionID, resultID, "/data"),
		contentType: mimeOctetStream,
		body:        data,
		idempotent:  true,
	})
	return err
}

func (c *Client) DownloadResultData(ctx context.Context, sessionID contract.SessionID, resultID contract.ResultID) ([]byte, error) {
	return c.do(ctx, request{method: http.MethodGet, path: resultPath(sessionID, resultID, "/data"), idempotent: true})
}

func (c *Client) GetResult(ctx context.Context, sessionID contract.SessionID, resultID contract.ResultID) (contract.Result, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: resultPath(sessionID, resultID, ""), idempotent: true})
	if err != nil {
		return contract.Result{}, err
	}

	var r contract.Result
	if err := decodeJSON(body, &r); err != nil {
		return contract.Result{}, err
	}
	return r, nil
}
