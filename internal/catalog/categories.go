package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/darkkaiser/retail-gateway/internal/retail"
	applog "github.com/darkkaiser/retail-gateway/pkg/log"
	log "github.com/sirupsen/logrus"
)

// CategoryFacet 카테고리 Facet의 개별 항목
type CategoryFacet struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int64  `json:"count"`
}

// categoriesCache 카테고리 스냅샷 하나를 보관하는 단일 항목 TTL 캐시입니다.
//
// echo 런타임은 요청마다 고루틴을 사용하므로 읽기-검사-갱신 구간 전체를
// 뮤텍스로 보호합니다. 스냅샷은 부분 갱신 없이 통째로 교체됩니다.
type categoriesCache struct {
	mu        sync.Mutex
	snapshot  []CategoryFacet
	fetchedAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// Categories 카탈로그의 카테고리 Facet 목록을 Count 내림차순으로 반환합니다.
//
// TTL(1시간) 이내의 캐시 스냅샷이 있으면 업스트림 호출 없이 그대로 반환합니다.
// 업스트림 호출이 실패하면 에러 대신 빈 목록을 반환합니다. 카테고리는 부가
// 기능이므로 호출자는 빈 결과를 '알 수 없음'으로 취급해야 하며, 실패 결과는
// 캐시되지 않습니다.
func (g *Gateway) Categories(ctx context.Context) []CategoryFacet {
	c := g.categories

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.snapshot
	}

	facets, err := g.fetchCategories(ctx)
	if err != nil {
		applog.WithComponentAndFields(component, log.Fields{
			"error": err,
		}).Warn("카테고리 조회에 실패하여 빈 목록을 반환합니다")
		return []CategoryFacet{}
	}

	c.snapshot = facets
	c.fetchedAt = c.now()

	return c.snapshot
}

// ClearCategoriesCache 카테고리 캐시를 비웁니다. 재조회는 수행하지 않으며,
// 다음 Categories 호출 시 업스트림에서 새로 조회됩니다.
func (g *Gateway) ClearCategoriesCache() {
	c := g.categories

	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = nil
	c.fetchedAt = time.Time{}
}

// fetchCategories 업스트림에 카테고리 Facet 집계 쿼리를 수행합니다.
// 검색 결과 자체는 필요 없으므로 페이지 크기는 1로 고정합니다.
func (g *Gateway) fetchCategories(ctx context.Context) ([]CategoryFacet, error) {
	resp, err := g.client.Search(ctx, &retail.SearchRequest{
		Placement: g.cfg.SearchPlacementPath(),
		Query:     "",
		VisitorID: newVisitorID(),
		PageSize:  1,
		FacetSpecs: []retail.FacetSpec{
			{Key: "categories", Limit: 100},
		},
	})
	if err != nil {
		return nil, err
	}

	var facets []CategoryFacet
	for _, facet := range resp.Facets {
		if facet.Key != "categories" {
			continue
		}
		for _, value := range facet.Values {
			facets = append(facets, CategoryFacet{
				Name:  value.Value,
				Slug:  slugify(value.Value),
				Count: value.Count,
			})
		}
	}

	// Count 내림차순 정렬, 동률은 업스트림 순서를 유지한다.
	sort.SliceStable(facets, func(i, j int) bool {
		return facets[i].Count > facets[j].Count
	})

	if facets == nil {
		facets = []CategoryFacet{}
	}

	return facets, nil
}

// slugify 카테고리명에서 URL 친화적인 슬러그를 유도합니다.
//
// 치환 순서가 중요합니다. " & " 규칙이 공백 및 단독 '&' 규칙보다 먼저 적용되어야
// 이중 하이픈이 생기지 않습니다.
//   - "Books & Media" -> "books-media"
//   - "Home & Garden" -> "home-garden"
//   - "R&B"           -> "randb"
func slugify(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " & ", "-")
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "&", "and")
	return slug
}
