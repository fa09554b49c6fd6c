package retail

import (
	"context"
	"encoding/json"
)

// Client Retail API와의 통신 경계를 정의하는 인터페이스입니다.
//
// 상품 레코드는 타입이 지정된 구조체가 아닌 원본 JSON([]byte) 형태로 반환됩니다.
// 상위 계층(catalog)의 정규화 로직이 필드명 표기 차이(camelCase/snake_case)와
// 누락 필드를 직접 다루기 때문입니다.
type Client interface {
	// Search 검색 Serving Config에 대해 상품 검색을 수행합니다.
	Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error)

	// CompleteQuery 검색어 자동완성 제안을 조회합니다.
	CompleteQuery(ctx context.Context, req *CompleteQueryRequest) (*CompleteQueryResponse, error)

	// Predict 추천 Serving Config에 대해 상품 추천을 수행합니다.
	Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error)

	// GetProduct 상품 리소스 경로(name)로 단일 상품을 조회합니다.
	GetProduct(ctx context.Context, name string) (json.RawMessage, error)

	// ListProducts 브랜치 내의 상품을 페이지 단위로 조회합니다.
	ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error)

	// Close 내부 gRPC 연결을 모두 종료합니다.
	Close() error
}

// SearchRequest 상품 검색 요청
type SearchRequest struct {
	Placement  string
	Branch     string
	Query      string
	VisitorID  string
	PageSize   int32
	Offset     int32
	PageToken  string
	Filter     string
	OrderBy    string
	FacetSpecs []FacetSpec
}

// FacetSpec 검색 결과와 함께 집계할 Facet의 정의
type FacetSpec struct {
	Key       string
	Limit     int32
	Intervals []Interval
}

// Interval 숫자형 Facet의 집계 구간. Max가 nil이면 상한이 없는 구간입니다.
type Interval struct {
	Min float64
	Max *float64
}

// SearchResponse 상품 검색 응답
type SearchResponse struct {
	Results          []SearchResult
	Facets           []Facet
	TotalSize        int32
	NextPageToken    string
	AttributionToken string
	CorrectedQuery   string
}

// SearchResult 검색 결과의 개별 항목. Product는 원본 JSON 상품 레코드입니다.
type SearchResult struct {
	ID      string
	Product json.RawMessage
}

// Facet 검색 결과와 함께 집계된 Facet
type Facet struct {
	Key    string
	Values []FacetValue
}

// FacetValue Facet의 개별 값과 해당 값을 가진 상품 수
type FacetValue struct {
	Value string
	Count int64
}

// CompleteQueryRequest 자동완성 요청
type CompleteQueryRequest struct {
	Catalog        string
	Query          string
	VisitorID      string
	MaxSuggestions int32
}

// CompleteQueryResponse 자동완성 응답
type CompleteQueryResponse struct {
	Suggestions      []Suggestion
	AttributionToken string
}

// Suggestion 자동완성 제안 항목
type Suggestion struct {
	Suggestion string                     `json:"suggestion"`
	Attributes map[string]json.RawMessage `json:"attributes,omitempty"`
}

// PredictRequest 추천 요청. EventType과 ProductID는 합성 사용자 이벤트 구성에 사용됩니다.
type PredictRequest struct {
	Placement    string
	VisitorID    string
	EventType    string
	ProductID    string
	PageSize     int32
	Filter       string
	ValidateOnly bool
	Params       map[string]any
}

// PredictResponse 추천 응답
type PredictResponse struct {
	Results          []PredictResult
	AttributionToken string
	MissingIDs       []string
	ValidateOnly     bool
}

// PredictResult 추천 결과의 개별 항목. Metadata에는 returnProduct 파라미터 사용 시
// "product" 키로 원본 JSON 상품 레코드가 포함됩니다.
type PredictResult struct {
	ID       string
	Metadata map[string]json.RawMessage
}

// ListProductsRequest 상품 목록 조회 요청
type ListProductsRequest struct {
	Parent    string
	PageSize  int32
	PageToken string
	Filter    string
}

// ListProductsResponse 상품 목록 조회 응답. 마지막 페이지에서는 NextPageToken이 빈 문자열입니다.
type ListProductsResponse struct {
	Products      []json.RawMessage
	NextPageToken string
}
