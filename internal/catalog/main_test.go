package catalog

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain 테스트 종료 시 고루틴 누수를 검사합니다.
// 상품 정보 보강(hydration)의 fan-out 고루틴이 모두 정리되는지 확인하기 위함입니다.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
