package system

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/darkkaiser/armonik-samples/internal/pkg/version"
	"github.com/darkkaiser/armonik-samples/internal/service/api/constants"
	"github.com/darkkaiser/armonik-samples/internal/service/contract/mocks"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		withClient bool
		wantStatus string
	}{
		{"컨트롤 플레인 연결", true, constants.HealthStatusHealthy},
		{"컨트롤 플레인 없음", false, constants.HealthStatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewHandler(nil, version.Info{})
			if tt.withClient {
				h = NewHandler(&mocks.MockClient{}, version.Info{})
			}

			rec := httptest.NewRecorder()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
			require.NoError(t, h.HealthCheckHandler(c))

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantStatus, resp.Dependencies[constants.DependencyControlPlane].Status)
			assert.GreaterOrEqual(t, resp.Uptime, int64(0))
		})
	}
}

func TestVersionHandler(t *testing.T) {
	t.Parallel()

	info := version.Info{Version: "v1.0.0", Commit: "abc", GoVersion: "go1.24"}
	h := NewHandler(&mocks.MockClient{}, info)

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/version", nil), rec)
	require.NoError(t, h.VersionHandler(c))

	var got version.Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, info, got)
}
