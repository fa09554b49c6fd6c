package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidateContentType Content-Type 검증 미들웨어의 동작을 검증합니다.
func TestValidateContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		contentType    string
		body           string
		expectedStatus int
	}{
		{
			name:           "application/json 요청은 통과한다",
			method:         http.MethodPost,
			contentType:    echo.MIMEApplicationJSON,
			body:           `{"query":"shoes"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "charset 파라미터가 있어도 통과한다",
			method:         http.MethodPost,
			contentType:    "application/json; charset=utf-8",
			body:           `{"query":"shoes"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "대소문자가 달라도 통과한다",
			method:         http.MethodPost,
			contentType:    "Application/JSON",
			body:           `{"query":"shoes"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "text/plain 요청은 415로 거부된다",
			method:         http.MethodPost,
			contentType:    echo.MIMETextPlain,
			body:           `query=shoes`,
			expectedStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:           "Content-Type 없이 본문이 있으면 415로 거부된다",
			method:         http.MethodPost,
			contentType:    "",
			body:           `{"query":"shoes"}`,
			expectedStatus: http.StatusUnsupportedMediaType,
		},
		{
			name:           "본문이 없는 GET 요청은 검증을 건너뛴다",
			method:         http.MethodGet,
			contentType:    "",
			body:           "",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()

			var reqBody *strings.Reader
			if tt.body == "" {
				reqBody = strings.NewReader("")
			} else {
				reqBody = strings.NewReader(tt.body)
			}

			req := httptest.NewRequest(tt.method, "/", reqBody)
			if tt.contentType != "" {
				req.Header.Set(echo.HeaderContentType, tt.contentType)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			mw := ValidateContentType(echo.MIMEApplicationJSON)
			handler := mw(func(c echo.Context) error {
				return c.String(http.StatusOK, "ok")
			})

			err := handler(c)

			if tt.expectedStatus == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
			} else {
				var httpErr *echo.HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, tt.expectedStatus, httpErr.Code)
			}
		})
	}
}
