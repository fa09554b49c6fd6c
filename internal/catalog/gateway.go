// Package catalog Retail API 조회 기능의 핵심 게이트웨이입니다.
//
// HTTP 계층의 요청을 업스트림 호출로 변환하고, 업스트림의 느슨한 상품 레코드를
// 안정적인 CanonicalProduct 계약으로 정규화하여 반환합니다. 검색(Search),
// 자동완성(Autocomplete), 추천(Recommend), 상품 조회(Products), 카테고리
// (Categories)의 다섯 가지 조회 기능을 제공합니다.
package catalog

import (
	"encoding/hex"
	"time"

	"github.com/darkkaiser/retail-gateway/internal/config"
	apperrors "github.com/darkkaiser/retail-gateway/internal/pkg/errors"
	"github.com/darkkaiser/retail-gateway/internal/retail"
	"github.com/google/uuid"
)

const component = "catalog"

// categoriesCacheTTL 카테고리 스냅샷의 유효 기간
const categoriesCacheTTL = 1 * time.Hour

// Gateway Retail API 조회 기능의 파사드(Facade)입니다.
//
// 업스트림 클라이언트는 인터페이스로 주입받으므로 테스트에서 가짜 구현체로
// 대체할 수 있습니다. Gateway 인스턴스는 여러 고루틴에서 동시에 사용해도
// 안전합니다.
type Gateway struct {
	cfg    *config.AppConfig
	client retail.Client

	categories *categoriesCache
}

// New Gateway를 생성합니다.
func New(cfg *config.AppConfig, client retail.Client) *Gateway {
	return &Gateway{
		cfg:    cfg,
		client: client,
		categories: &categoriesCache{
			ttl: categoriesCacheTTL,
			now: time.Now,
		},
	}
}

// Health Gateway의 의존성 상태를 확인합니다.
// 업스트림 클라이언트가 초기화되지 않은 경우 에러를 반환합니다.
func (g *Gateway) Health() error {
	if g.client == nil {
		return apperrors.New(apperrors.Internal, "Retail API 클라이언트가 초기화되지 않았습니다")
	}
	return nil
}

// newVisitorID 업스트림 호출에 사용할 임시 방문자 식별자를 생성합니다.
// 방문자 식별자는 호출 단위의 상관 토큰일 뿐이며 어디에도 저장되지 않습니다.
func newVisitorID() string {
	id := uuid.New()
	return "visitor_" + hex.EncodeToString(id[:])[:16]
}
