package httputil

import (
	"net/http"

	"github.com/darkkaiser/retail-gateway/internal/service/api/model/response"
	"github.com/labstack/echo/v4"
)

// Data 표준 성공 응답(200 OK)을 Envelope 형식의 JSON으로 반환합니다.
func Data(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, response.NewSuccess(data))
}

// NewBadRequestError 400 Bad Request 에러를 생성합니다
func NewBadRequestError(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, message)
}

// NewNotFoundError 404 Not Found 에러를 생성합니다
func NewNotFoundError(message string) error {
	return echo.NewHTTPError(http.StatusNotFound, message)
}

// NewTooManyRequestsError 429 Too Many Requests 에러를 생성합니다
func NewTooManyRequestsError(message string) error {
	return echo.NewHTTPError(http.StatusTooManyRequests, message)
}

// NewInternalServerError 500 Internal Server Error 에러를 생성합니다
func NewInternalServerError(message string) error {
	return echo.NewHTTPError(http.StatusInternalServerError, message)
}

// NewServiceUnavailableError 503 Service Unavailable 에러를 생성합니다
func NewServiceUnavailableError(message string) error {
	return echo.NewHTTPError(http.StatusServiceUnavailable, message)
}

// NewGatewayTimeoutError 504 Gateway Timeout 에러를 생성합니다
func NewGatewayTimeoutError(message string) error {
	return echo.NewHTTPError(http.StatusGatewayTimeout, message)
}
