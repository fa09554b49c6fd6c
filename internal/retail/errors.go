package retail

import (
	"context"
	"errors"

	apperrors "github.com/darkkaiser/retail-gateway/internal/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// classify 업스트림 호출 실패를 도메인 에러 타입으로 분류합니다.
//
// gRPC 상태 코드 매핑:
//   - NotFound          -> NotFound (존재하지 않는 상품, 잘못된 리소스 경로)
//   - DeadlineExceeded  -> Timeout (RPC 타임아웃)
//   - Unavailable       -> Unavailable (업스트림 장애)
//   - ResourceExhausted -> Unavailable (할당량 초과)
//   - InvalidArgument   -> InvalidInput (잘못된 요청 파라미터)
//   - 그 외             -> ExecutionFailed
func classify(err error, message string) error {
	if err == nil {
		return nil
	}

	// gRPC 경계를 거치지 않고 취소된 context
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(err, apperrors.Timeout, message)
	}

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.NotFound:
			return apperrors.Wrap(err, apperrors.NotFound, message)
		case codes.DeadlineExceeded:
			return apperrors.Wrap(err, apperrors.Timeout, message)
		case codes.Unavailable, codes.ResourceExhausted:
			return apperrors.Wrap(err, apperrors.Unavailable, message)
		case codes.InvalidArgument:
			return apperrors.Wrap(err, apperrors.InvalidInput, message)
		}
	}

	return apperrors.Wrap(err, apperrors.ExecutionFailed, message)
}
