// Package response API 공통 응답 모델을 정의합니다.
//
// 모든 응답은 성공/실패 여부와 관계없이 동일한 Envelope 구조로 감싸서 반환되며,
// 클라이언트는 프로토콜 수준의 원시 실패를 받지 않습니다.
package response

// Envelope 모든 API 응답을 감싸는 표준 봉투입니다.
//
// 성공 응답: {"success": true, "data": ...}
// 실패 응답: {"success": false, "error": "..."}
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewSuccess 성공 응답 Envelope을 생성합니다.
func NewSuccess(data any) Envelope {
	return Envelope{
		Success: true,
		Data:    data,
	}
}

// NewError 실패 응답 Envelope을 생성합니다.
func NewError(message string) Envelope {
	return Envelope{
		Success: false,
		Error:   message,
	}
}
