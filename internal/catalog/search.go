package catalog

import (
	"context"

	"github.com/darkkaiser/retail-gateway/internal/retail"
	applog "github.com/darkkaiser/retail-gateway/pkg/log"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// defaultSearchPageSize 검색 페이지 크기 기본값
	defaultSearchPageSize = 20

	// defaultMaxSuggestions 자동완성 제안 수 기본값
	defaultMaxSuggestions = 5
)

// SearchInput 상품 검색 입력. 경계값 검증은 HTTP 계층에서 수행되며,
// 이 계층은 누락된 값에 기본값만 적용합니다.
type SearchInput struct {
	Query      string
	VisitorID  string
	PageSize   int32
	Offset     int32
	PageToken  string
	Filter     string
	OrderBy    string
	FacetSpecs []retail.FacetSpec
}

// SearchResultItem 검색 결과의 개별 항목
type SearchResultItem struct {
	ID      string            `json:"id"`
	Product *CanonicalProduct `json:"product"`
}

// FacetResult 검색 결과와 함께 집계된 Facet
type FacetResult struct {
	Key    string             `json:"key"`
	Values []FacetValueResult `json:"values"`
}

// FacetValueResult Facet의 개별 값
type FacetValueResult struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// SearchOutput 상품 검색 결과
type SearchOutput struct {
	Results          []SearchResultItem `json:"results"`
	TotalSize        int32              `json:"total_size"`
	Facets           []FacetResult      `json:"facets"`
	AttributionToken string             `json:"attribution_token"`
	NextPageToken    string             `json:"next_page_token"`
	CorrectedQuery   string             `json:"corrected_query"`
}

// Search 상품 검색을 수행합니다.
//
// 빈 질의는 '전체 일치'를 의미합니다. Facet 정의가 없으면 기본 Facet
// (categories, brands, 가격 구간)이 적용됩니다. 업스트림 실패는 호출자에게
// 그대로 전파됩니다. 검색은 핵심 기능이므로 실패를 감추지 않습니다.
func (g *Gateway) Search(ctx context.Context, in *SearchInput) (*SearchOutput, error) {
	pageSize := in.PageSize
	if pageSize <= 0 {
		pageSize = defaultSearchPageSize
	}

	visitorID := in.VisitorID
	if visitorID == "" {
		visitorID = newVisitorID()
	}

	facetSpecs := in.FacetSpecs
	if len(facetSpecs) == 0 {
		facetSpecs = defaultFacetSpecs()
	}

	resp, err := g.client.Search(ctx, &retail.SearchRequest{
		Placement:  g.cfg.SearchPlacementPath(),
		Query:      in.Query,
		VisitorID:  visitorID,
		PageSize:   pageSize,
		Offset:     in.Offset,
		PageToken:  in.PageToken,
		Filter:     in.Filter,
		OrderBy:    in.OrderBy,
		FacetSpecs: facetSpecs,
	})
	if err != nil {
		return nil, err
	}

	out := &SearchOutput{
		Results:          make([]SearchResultItem, 0, len(resp.Results)),
		TotalSize:        resp.TotalSize,
		Facets:           make([]FacetResult, 0, len(resp.Facets)),
		AttributionToken: resp.AttributionToken,
		NextPageToken:    resp.NextPageToken,
		CorrectedQuery:   resp.CorrectedQuery,
	}

	for _, result := range resp.Results {
		product, err := Normalize(result.Product)
		if err != nil {
			return nil, err
		}
		out.Results = append(out.Results, SearchResultItem{
			ID:      result.ID,
			Product: product,
		})
	}

	for _, facet := range resp.Facets {
		facetResult := FacetResult{
			Key:    facet.Key,
			Values: make([]FacetValueResult, 0, len(facet.Values)),
		}
		for _, value := range facet.Values {
			facetResult.Values = append(facetResult.Values, FacetValueResult{
				Value: value.Value,
				Count: value.Count,
			})
		}
		out.Facets = append(out.Facets, facetResult)
	}

	if g.cfg.Retail.Hydration.Enabled {
		g.hydrate(ctx, out.Results)
	}

	return out, nil
}

// hydrate 참조 전용으로 반환된 검색 결과(제목이 비어있는 상품)를 개별 조회로 보강합니다.
//
// Serving Config가 상품 필드를 반환하도록 구성되지 않은 배포 환경을 위한
// 보완 수단입니다. 결과 수에 비례하여 RPC가 늘어나므로 동시 실행 수를 제한하며,
// 개별 조회 실패는 최선 노력(best-effort)으로 무시하고 원본 결과를 유지합니다.
func (g *Gateway) hydrate(ctx context.Context, results []SearchResultItem) {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Retail.Hydration.Concurrency)

	for i := range results {
		if results[i].Product == nil || results[i].Product.Title != "" {
			continue
		}

		productID := results[i].Product.ID
		if productID == "" {
			productID = results[i].ID
		}
		if productID == "" {
			continue
		}

		item := &results[i]
		eg.Go(func() error {
			record, err := g.client.GetProduct(ctx, g.cfg.ProductName(productID))
			if err != nil {
				applog.WithComponentAndFields(component, log.Fields{
					"product_id": productID,
					"error":      err,
				}).Warn("상품 정보 보강 조회에 실패했습니다")
				return nil
			}

			product, err := Normalize(record)
			if err != nil {
				applog.WithComponentAndFields(component, log.Fields{
					"product_id": productID,
					"error":      err,
				}).Warn("보강 조회된 상품의 정규화에 실패했습니다")
				return nil
			}

			item.Product = product
			return nil
		})
	}

	_ = eg.Wait()
}

// defaultFacetSpecs 검색에 기본으로 적용되는 Facet 정의를 반환합니다.
// 카테고리 상위 20개, 브랜드 상위 20개, 5구간 가격 히스토그램으로 구성됩니다.
func defaultFacetSpecs() []retail.FacetSpec {
	maxOf := func(v float64) *float64 { return &v }

	return []retail.FacetSpec{
		{Key: "categories", Limit: 20},
		{Key: "brands", Limit: 20},
		{
			Key: "priceInfo.price",
			Intervals: []retail.Interval{
				{Min: 0, Max: maxOf(25)},
				{Min: 25, Max: maxOf(50)},
				{Min: 50, Max: maxOf(100)},
				{Min: 100, Max: maxOf(250)},
				{Min: 250},
			},
		},
	}
}

// AutocompleteInput 자동완성 입력
type AutocompleteInput struct {
	Query          string
	VisitorID      string
	MaxSuggestions int32
}

// AutocompleteOutput 자동완성 결과
type AutocompleteOutput struct {
	Suggestions      []retail.Suggestion `json:"suggestions"`
	AttributionToken string              `json:"attribution_token"`
}

// Autocomplete 검색어 자동완성 제안을 조회합니다.
// 자동완성 쿼리는 Serving Config가 아닌 카탈로그 경로를 대상으로 합니다.
// 업스트림 실패는 호출자에게 그대로 전파됩니다.
func (g *Gateway) Autocomplete(ctx context.Context, in *AutocompleteInput) (*AutocompleteOutput, error) {
	maxSuggestions := in.MaxSuggestions
	if maxSuggestions <= 0 {
		maxSuggestions = defaultMaxSuggestions
	}

	visitorID := in.VisitorID
	if visitorID == "" {
		visitorID = newVisitorID()
	}

	resp, err := g.client.CompleteQuery(ctx, &retail.CompleteQueryRequest{
		Catalog:        g.cfg.CatalogPath(),
		Query:          in.Query,
		VisitorID:      visitorID,
		MaxSuggestions: maxSuggestions,
	})
	if err != nil {
		return nil, err
	}

	suggestions := resp.Suggestions
	if suggestions == nil {
		suggestions = []retail.Suggestion{}
	}

	return &AutocompleteOutput{
		Suggestions:      suggestions,
		AttributionToken: resp.AttributionToken,
	}, nil
}
