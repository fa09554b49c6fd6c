package system

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	apperrors "github.com/darkkaiser/retail-gateway/internal/pkg/errors"
	"github.com/darkkaiser/retail-gateway/internal/pkg/version"
	"github.com/darkkaiser/retail-gateway/internal/service/api/constants"
	"github.com/darkkaiser/retail-gateway/internal/service/api/model/response"
	systemmodel "github.com/darkkaiser/retail-gateway/internal/service/api/model/system"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHealthChecker 테스트용 HealthChecker 구현체입니다.
type fakeHealthChecker struct {
	err error
}

func (f *fakeHealthChecker) Health() error {
	return f.err
}

func doRequest(h *Handler, handlerFn func(echo.Context) error, target string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handlerFn(c)
	return rec
}

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()

	t.Run("의존성이 정상이면 healthy를 반환한다", func(t *testing.T) {
		t.Parallel()

		h := NewHandler(&fakeHealthChecker{}, version.Get())
		rec := doRequest(h, h.HealthCheckHandler, "/health")

		require.Equal(t, http.StatusOK, rec.Code)

		var resp systemmodel.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		assert.Equal(t, constants.HealthStatusHealthy, resp.Status)
		assert.GreaterOrEqual(t, resp.Uptime, int64(0))

		dep, ok := resp.Dependencies[constants.DependencyRetailAPI]
		require.True(t, ok)
		assert.Equal(t, constants.HealthStatusHealthy, dep.Status)
	})

	t.Run("의존성 실패 시 unhealthy를 반환한다", func(t *testing.T) {
		t.Parallel()

		h := NewHandler(&fakeHealthChecker{
			err: apperrors.New(apperrors.Internal, "클라이언트가 초기화되지 않았습니다"),
		}, version.Get())
		rec := doRequest(h, h.HealthCheckHandler, "/health")

		require.Equal(t, http.StatusOK, rec.Code)

		var resp systemmodel.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		assert.Equal(t, constants.HealthStatusUnhealthy, resp.Status)

		dep := resp.Dependencies[constants.DependencyRetailAPI]
		assert.Equal(t, constants.HealthStatusUnhealthy, dep.Status)
		assert.NotEmpty(t, dep.Message)
	})

	t.Run("HealthChecker가 nil이면 unhealthy를 반환한다", func(t *testing.T) {
		t.Parallel()

		h := NewHandler(nil, version.Get())
		rec := doRequest(h, h.HealthCheckHandler, "/health")

		var resp systemmodel.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		assert.Equal(t, constants.HealthStatusUnhealthy, resp.Status)
	})
}

func TestVersionHandler(t *testing.T) {
	t.Parallel()

	h := NewHandler(&fakeHealthChecker{}, version.Info{
		Version:   "1.2.3",
		Commit:    "abc1234",
		BuildDate: "2026-08-30",
	})
	rec := doRequest(h, h.VersionHandler, "/version")

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)

	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)

	var resp systemmodel.VersionResponse
	require.NoError(t, json.Unmarshal(data, &resp))

	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, "abc1234", resp.Commit)
	assert.Equal(t, "2026-08-30", resp.BuildDate)
	assert.Equal(t, runtime.Version(), resp.GoVersion)
}
