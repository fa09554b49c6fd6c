package httputil

import (
	"net/http"

	apperrors "github.com/darkkaiser/retail-gateway/internal/pkg/errors"
	"github.com/darkkaiser/retail-gateway/internal/service/api/constants"
	"github.com/darkkaiser/retail-gateway/internal/service/api/model/response"
	applog "github.com/darkkaiser/retail-gateway/pkg/log"
	"github.com/labstack/echo/v4"
)

// FromError 도메인 에러를 HTTP 상태 코드가 매핑된 echo.HTTPError로 변환합니다.
//
// 에러 타입별 상태 코드 매핑:
//   - InvalidInput → 400 Bad Request
//   - NotFound     → 404 Not Found
//   - Unavailable  → 503 Service Unavailable
//   - Timeout      → 504 Gateway Timeout
//   - 그 외        → 500 Internal Server Error
//
// 응답 메시지는 도메인 에러의 메시지를 그대로 사용하되, 5xx 계열은 내부 구현이
// 노출되지 않도록 표준 메시지로 대체합니다.
func FromError(err error) error {
	if err == nil {
		return nil
	}

	switch apperrors.UnderlyingType(err) {
	case apperrors.InvalidInput:
		return echo.NewHTTPError(http.StatusBadRequest, clientMessage(err))
	case apperrors.NotFound:
		return echo.NewHTTPError(http.StatusNotFound, clientMessage(err))
	case apperrors.Unavailable:
		return echo.NewHTTPError(http.StatusServiceUnavailable, constants.ErrMsgServiceUnavailable)
	case apperrors.Timeout:
		return echo.NewHTTPError(http.StatusGatewayTimeout, constants.ErrMsgGatewayTimeout)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, constants.ErrMsgInternalServer)
	}
}

// clientMessage 클라이언트에게 노출할 에러 메시지를 추출합니다.
// AppError의 경우 "[타입] 메시지: 원인" 형식의 내부 표현 대신 메시지만 반환합니다.
func clientMessage(err error) string {
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		return appErr.Message()
	}
	return err.Error()
}

// ErrorHandler Echo 프레임워크의 전역 에러 핸들러입니다.
//
// 모든 HTTP 에러를 가로채서 표준 Envelope JSON 형식(success:false, error:<message>)으로
// 변환하여 반환합니다. 에러 발생 시 적절한 로그 레벨(Error/Warn)로 상세 정보를 기록합니다.
func ErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := constants.ErrMsgInternalServer

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}

	// 라우팅 실패(echo 기본 메시지) 404 에러는 사용자 친화적인 한국어 메시지로 통일
	if code == http.StatusNotFound && message == http.StatusText(http.StatusNotFound) {
		message = constants.ErrMsgNotFound
	}

	// 에러 로깅 (보안 및 디버깅 용도)
	fields := applog.Fields{
		"path":        c.Request().URL.Path,
		"method":      c.Request().Method,
		"status_code": code,
		"error":       err,
		"remote_ip":   c.RealIP(),
		"request_id":  c.Response().Header().Get(echo.HeaderXRequestID),
	}

	if code >= http.StatusInternalServerError {
		// 5xx: 서버 내부 오류 - 즉시 조치 필요
		applog.WithComponentAndFields(constants.ComponentErrorHandler, fields).Error(constants.LogMsgHTTP5xxServerError)
	} else if code >= http.StatusBadRequest {
		// 4xx: 클라이언트 요청 오류 - 정상적인 거부 응답
		applog.WithComponentAndFields(constants.ComponentErrorHandler, fields).Warn(constants.LogMsgHTTP4xxClientError)
	}

	// 이중 응답 방지: 이미 응답이 전송된 경우 추가 응답 시도하지 않음
	if c.Response().Committed {
		return
	}

	// HEAD 요청 처리: HTTP 명세에 따라 헤더만 반환하고 본문은 생략
	if c.Request().Method == http.MethodHead {
		c.NoContent(code)
		return
	}

	// 일반 요청: 표준 Envelope 형식으로 응답
	c.JSON(code, response.NewError(message))
}
