// Package client HTTP 컨트롤 플레인(internal/service/api)에 접속하는 contract.Client 구현을 제공합니다.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/darkkaiser/armonik-samples/internal/config"
	apperrors "github.com/darkkaiser/armonik-samples/internal/pkg/errors"
	"github.com/darkkaiser/armonik-samples/internal/service/contract"
	applog "github.com/darkkaiser/armonik-samples/pkg/log"
)

// component HTTP 클라이언트의 로깅용 컴포넌트 이름
const component = "client.http"

const (
	defaultMaxRetryDelay = 10 * time.Second

	mimeJSON        = "application/json"
	mimeOctetStream = "application/octet-stream"
)

// Client HTTP 컨트롤 플레인 클라이언트입니다.
//
// 요청마다 RequestTimeout이 적용되며, 전송 오류와 5xx(429 포함) 응답은
// 멱등한 요청에 한해 MaxRetries까지 지수 백오프로 재시도합니다.
type Client struct {
	baseURL *url.URL

	httpClient *http.Client

	requestTimeout time.Duration
	maxRetries     int
	retryDelay     time.Duration
	maxRetryDelay  time.Duration

	// waitPollTimeout 이벤트 대기 요청 하나가 서버에서 보류되는 최대 시간
	waitPollTimeout time.Duration
}

var _ contract.Client = (*Client)(nil)

// Option Client 생성 옵션입니다.
type Option func(*Client)

// WithHTTPClient 기본 http.Client 대신 사용할 클라이언트를 지정합니다.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New ControlPlaneConfig로 Client를 생성합니다.
func New(cfg config.ControlPlaneConfig, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(cfg.Endpoint, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, apperrors.Wrap(ErrInvalidEndpoint, apperrors.InvalidInput, fmt.Sprintf("endpoint: '%s'", cfg.Endpoint))
	}

	c := &Client{
		baseURL: u,

		httpClient: &http.Client{},

		requestTimeout: cfg.RequestTimeout,
		maxRetries:     max(cfg.MaxRetries, 0),
		retryDelay:     cfg.RetryDelay,
		maxRetryDelay:  defaultMaxRetryDelay,
	}

	if c.requestTimeout <= 0 {
		c.requestTimeout = config.Default().ControlPlane.RequestTimeout
	}
	// 응답 지연을 고려해 요청 제한 시간의 절반만 서버에서 보류
	c.waitPollTimeout = min(c.requestTimeout/2, 30*time.Second)

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// request 전송할 요청 하나의 명세입니다.
type request struct {
	method      string
	path        string
	contentType string
	body        []byte

	// idempotent 재시도해도 서버 상태가 달라지지 않는 요청
	idempotent bool
}

func jsonRequest(method, path string, payload any, idempotent bool) (request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return request{}, apperrors.Wrap(err, apperrors.Internal, "요청 본문 직렬화에 실패했습니다")
	}
	return request{method: method, path: path, contentType: mimeJSON, body: body, idempotent: idempotent}, nil
}

// do 요청을 보내고 2xx 응답의 본문을 반환합니다. 재시도 정책은 Client 문서를 따릅니다.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	attempts := 1
	if req.idempotent {
		attempts += c.maxRetries
	}

	var lastErr error
	var retryAfter time.Duration

	for i := 0; i < attempts; i++ {
		if i > 0 {
			delay := c.backoff(i, retryAfter)

			applog.WithComponentAndFields(component, applog.Fields{
				"method":      req.method,
				"path":        req.path,
				"retry":       i,
				"max_retries": c.maxRetries,
				"delay":       delay.String(),
				"error":       lastErr,
			}).Warn("컨트롤 플레인 요청 실패: 잠시 후 재시도합니다")

			select {
			case <-ctx.Done():
				return nil, apperrors.Classify(ctx.Err(), "재시도 대기 중 요청이 중단되었습니다")
			case <-time.After(delay):
			}
		}

		body, statusCode, header, err := c.send(ctx, req)
		if err == nil && statusCode < http.StatusMultipleChoices {
			return body, nil
		}

		if err != nil {
			// 호출자의 ctx가 끝났으면 재시도하지 않음
			if ctx.Err() != nil {
				return nil, apperrors.Classify(ctx.Err(), "컨트롤 플레인 요청이 중단되었습니다")
			}
			errType := apperrors.Unavailable
			if errors.Is(err, context.DeadlineExceeded) {
				errType = apperrors.Timeout
			}
			lastErr = apperrors.Wrapf(err, errType, "컨트롤 플레인 요청에 실패했습니다: %s %s", req.method, req.path)
			retryAfter = 0
			continue
		}

		lastErr = decodeError(statusCode, body)
		if !isRetryableStatus(statusCode) {
			return nil, lastErr
		}
		retryAfter = parseRetryAfter(header.Get("Retry-After"))
	}

	return nil, lastErr
}

// send 요청 한 번을 보냅니다. 반환된 error는 전송 단계의 오류입니다.
func (c *Client) send(ctx context.Context, req request) ([]byte, int, http.Header, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	var bodyReader io.Reader
	if req.body != nil {
		bodyReader = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(attemptCtx, req.method, c.baseURL.String()+req.path, bodyReader)
	if err != nil {
		return nil, 0, nil, err
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, nil, err
	}

	return body, resp.StatusCode, resp.Header, nil
}

// backoff retryDelay * 2^(attempt-1)에 jitter를 적용한 대기 시간입니다. 서버가 Retry-After를 주면 그 값을 따릅니다.
func (c *Client) backoff(attempt int, retryAfter time.Duration) time.Duration {
	if retryAfter > 0 {
		return min(retryAfter, c.maxRetryDelay)
	}

	delay := c.retryDelay * time.Duration(1<<(attempt-1))
	if delay > c.maxRetryDelay {
		delay = c.maxRetryDelay
	}
	if delay <= 0 {
		return 0
	}

	// [delay/2, delay] 구간의 jitter
	half := int64(delay) / 2
	return time.Duration(half + rand.Int64N(half+1))
}

func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	if date, err := http.ParseTime(value); err == nil {
		return max(time.Until(date), 0)
	}
	return 0
}

func decodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return apperrors.Wrap(err, apperrors.ParsingFailed, "컨트롤 플레인 응답을 해석할 수 없습니다")
	}
	return nil
}

func sessionPath(sessionID contract.SessionID, suffix string) string {
	return "/api/v1/sessions/" + url.PathEscape(sessionID.String()) + suffix
}

func resultPath(sessionID contract.SessionID, resultID contract.ResultID, suffix string) string {
	return sessionPath(sessionID, "/results/"+url.PathEscape(resultID.String())+suffix)
}
