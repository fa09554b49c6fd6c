// Package request API 요청 모델과 검증 규칙(validate 태그)을 정의합니다.
//
// 여기서 정의된 경계값 검증은 업스트림 RPC 호출 전에 수행되며,
// 검증을 통과하지 못한 요청은 RPC 없이 400 응답으로 거부됩니다.
package request

// SearchRequest 상품 검색 요청
type SearchRequest struct {
	// 검색 질의. 빈 문자열은 '전체 일치'를 의미합니다.
	Query string `json:"query" korean:"검색어"`
	// 방문자 식별자. 생략 시 서버에서 임의로 생성됩니다.
	VisitorID string `json:"visitor_id" korean:"방문자 ID"`
	// 페이지 크기 (1~100, 기본값 20)
	PageSize int32 `json:"page_size" validate:"omitempty,min=1,max=100" korean:"페이지 크기"`
	// 0부터 시작하는 결과 오프셋
	Offset int32 `json:"offset" validate:"min=0" korean:"오프셋"`
	// 페이지 연속 토큰
	PageToken string `json:"page_token" korean:"페이지 토큰"`
	// 필터 표현식. 업스트림에 그대로 전달됩니다.
	Filter string `json:"filter" korean:"필터"`
	// 정렬 표현식. 업스트림에 그대로 전달됩니다.
	OrderBy string `json:"order_by" korean:"정렬 기준"`
	// Facet 정의 목록. 생략 시 기본 Facet(categories, brands, 가격 구간)이 적용됩니다.
	FacetSpecs []FacetSpec `json:"facet_specs" validate:"omitempty,dive" korean:"Facet 정의"`
}

// FacetSpec 검색 결과와 함께 집계할 Facet의 정의
type FacetSpec struct {
	// Facet 키 (예: "categories", "brands", "priceInfo.price")
	Key string `json:"key" validate:"required" korean:"Facet 키"`
	// 집계할 최대 값 개수 (1~300)
	Limit int32 `json:"limit" validate:"omitempty,min=1,max=300" korean:"Facet 제한"`
	// 숫자형 Facet의 집계 구간 목록
	Intervals []Interval `json:"intervals" korean:"Facet 구간"`
}

// Interval 숫자형 Facet의 집계 구간. Max가 없으면 상한이 없는 구간입니다.
type Interval struct {
	Min float64  `json:"min" korean:"하한"`
	Max *float64 `json:"max,omitempty" korean:"상한"`
}

// AutocompleteRequest 검색어 자동완성 요청 (쿼리 파라미터로 바인딩)
type AutocompleteRequest struct {
	// 자동완성 대상 질의 (필수)
	Query string `query:"query" validate:"required" korean:"검색어"`
	// 방문자 식별자. 생략 시 서버에서 임의로 생성됩니다.
	VisitorID string `query:"visitor_id" korean:"방문자 ID"`
	// 최대 제안 수 (1~20, 기본값 5)
	MaxSuggestions int32 `query:"max_suggestions" validate:"omitempty,min=1,max=20" korean:"최대 제안 수"`
}
