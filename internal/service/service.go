// Package service 서버를 구성하는 서비스들의 공통 인터페이스를 정의합니다.
package service

import (
	"context"
	"sync"
)

// Service 서버에서 구동되는 개별 서비스의 생명주기 인터페이스입니다.
//
// 각 서비스는 Start 호출 시 고루틴으로 실행을 시작하며,
// serviceStopCtx가 취소되면 종료 절차를 수행한 후 serviceStopWG.Done()을 호출합니다.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
