package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/darkkaiser/retail-gateway/internal/pkg/errors"
	"github.com/darkkaiser/retail-gateway/internal/service/api/httputil"
	"github.com/darkkaiser/retail-gateway/internal/service/api/model/response"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPanicRecovery 핸들러의 panic이 복구되어 500 Envelope 응답으로 변환되는지 검증합니다.
func TestPanicRecovery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		panicValue any
	}{
		{"문자열 panic", "unexpected state"},
		{"에러 panic", apperrors.New(apperrors.Internal, "내부 오류")},
		{"임의 값 panic", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			e.HTTPErrorHandler = httputil.ErrorHandler
			e.Use(PanicRecovery())
			e.GET("/", func(c echo.Context) error {
				panic(tt.panicValue)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			require.NotPanics(t, func() {
				e.ServeHTTP(rec, req)
			})

			assert.Equal(t, http.StatusInternalServerError, rec.Code)

			var envelope response.Envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
			assert.False(t, envelope.Success)
			assert.NotEmpty(t, envelope.Error)
		})
	}
}

// TestPanicRecovery_NormalRequest panic이 없는 요청은 영향을 받지 않는지 검증합니다.
func TestPanicRecovery_NormalRequest(t *testing.T) {
	t.Parallel()

	e := echo.New()
	e.Use(PanicRecovery())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
