package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/darkkaiser/retail-gateway/internal/retail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"공백으로 둘러싸인 앰퍼샌드는 하이픈 하나가 된다", "Books & Media", "books-media"},
		{"이중 하이픈이 생기지 않는다", "Home & Garden", "home-garden"},
		{"단독 앰퍼샌드는 and로 치환된다", "R&B", "randb"},
		{"공백은 하이픈으로 치환된다", "Office Supplies", "office-supplies"},
		{"소문자로 변환된다", "ELECTRONICS", "electronics"},
		{"빈 문자열은 빈 슬러그가 된다", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, slugify(tt.in))
		})
	}
}

// categoriesSearchResponse 카테고리 Facet 조회에 대한 업스트림 응답을 생성합니다.
func categoriesSearchResponse(values ...retail.FacetValue) *retail.SearchResponse {
	return &retail.SearchResponse{
		Facets: []retail.Facet{
			{Key: "categories", Values: values},
		},
	}
}

func TestCategories(t *testing.T) {
	t.Parallel()

	t.Run("Facet 값을 슬러그와 함께 Count 내림차순으로 반환한다", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			searchFn: func(_ context.Context, _ *retail.SearchRequest) (*retail.SearchResponse, error) {
				return categoriesSearchResponse(
					retail.FacetValue{Value: "Books & Media", Count: 5},
					retail.FacetValue{Value: "Electronics", Count: 20},
					retail.FacetValue{Value: "Home & Garden", Count: 20},
					retail.FacetValue{Value: "R&B", Count: 1},
				), nil
			},
		}
		g := New(newTestConfig(), client)

		facets := g.Categories(context.Background())

		require.Len(t, facets, 4)

		// Count 내림차순, 동률(20, 20)은 업스트림 순서 유지
		assert.Equal(t, CategoryFacet{Name: "Electronics", Slug: "electronics", Count: 20}, facets[0])
		assert.Equal(t, CategoryFacet{Name: "Home & Garden", Slug: "home-garden", Count: 20}, facets[1])
		assert.Equal(t, CategoryFacet{Name: "Books & Media", Slug: "books-media", Count: 5}, facets[2])
		assert.Equal(t, CategoryFacet{Name: "R&B", Slug: "randb", Count: 1}, facets[3])
	})

	t.Run("카테고리 조회 요청의 형태가 올바르다", func(t *testing.T) {
		t.Parallel()

		var captured *retail.SearchRequest
		client := &fakeClient{
			searchFn: func(_ context.Context, req *retail.SearchRequest) (*retail.SearchResponse, error) {
				captured = req
				return categoriesSearchResponse(), nil
			},
		}
		g := New(newTestConfig(), client)

		g.Categories(context.Background())

		require.NotNil(t, captured)
		assert.Equal(t, "projects/test-project/locations/global/catalogs/default_catalog/placements/default_search", captured.Placement)
		assert.Empty(t, captured.Query)
		assert.Equal(t, int32(1), captured.PageSize)
		require.Len(t, captured.FacetSpecs, 1)
		assert.Equal(t, "categories", captured.FacetSpecs[0].Key)
		assert.Equal(t, int32(100), captured.FacetSpecs[0].Limit)

		// 호출마다 새로운 방문자 식별자가 생성된다.
		assert.Regexp(t, `^visitor_[0-9a-f]{16}$`, captured.VisitorID)
	})

	t.Run("TTL 이내의 두 번째 호출은 업스트림을 호출하지 않는다", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			searchFn: func(_ context.Context, _ *retail.SearchRequest) (*retail.SearchResponse, error) {
				return categoriesSearchResponse(retail.FacetValue{Value: "Electronics", Count: 3}), nil
			},
		}
		g := New(newTestConfig(), client)

		first := g.Categories(context.Background())
		second := g.Categories(context.Background())

		assert.Equal(t, first, second)
		assert.Equal(t, int32(1), client.searchCalls.Load())
	})

	t.Run("TTL이 지나면 업스트림을 다시 호출한다", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			searchFn: func(_ context.Context, _ *retail.SearchRequest) (*retail.SearchResponse, error) {
				return categoriesSearchResponse(retail.FacetValue{Value: "Electronics", Count: 3}), nil
			},
		}
		g := New(newTestConfig(), client)

		// 테스트에서 시간을 제어하기 위해 캐시의 시계를 교체한다.
		now := time.Now()
		g.categories.now = func() time.Time { return now }

		g.Categories(context.Background())
		now = now.Add(categoriesCacheTTL + time.Minute)
		g.Categories(context.Background())

		assert.Equal(t, int32(2), client.searchCalls.Load())
	})

	t.Run("캐시 무효화 후에는 업스트림을 다시 호출한다", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			searchFn: func(_ context.Context, _ *retail.SearchRequest) (*retail.SearchResponse, error) {
				return categoriesSearchResponse(retail.FacetValue{Value: "Electronics", Count: 3}), nil
			},
		}
		g := New(newTestConfig(), client)

		g.Categories(context.Background())

		// 무효화 자체는 재조회를 일으키지 않는다.
		g.ClearCategoriesCache()
		assert.Equal(t, int32(1), client.searchCalls.Load())

		g.Categories(context.Background())
		assert.Equal(t, int32(2), client.searchCalls.Load())
	})

	t.Run("업스트림 실패 시 에러 대신 빈 목록을 반환한다", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			searchFn: func(_ context.Context, _ *retail.SearchRequest) (*retail.SearchResponse, error) {
				return nil, errors.New("upstream down")
			},
		}
		g := New(newTestConfig(), client)

		facets := g.Categories(context.Background())
		assert.NotNil(t, facets)
		assert.Empty(t, facets)
	})

	t.Run("실패 결과는 캐시되지 않는다", func(t *testing.T) {
		t.Parallel()

		failing := true
		client := &fakeClient{
			searchFn: func(_ context.Context, _ *retail.SearchRequest) (*retail.SearchResponse, error) {
				if failing {
					return nil, errors.New("upstream down")
				}
				return categoriesSearchResponse(retail.FacetValue{Value: "Electronics", Count: 3}), nil
			},
		}
		g := New(newTestConfig(), client)

		assert.Empty(t, g.Categories(context.Background()))

		failing = false
		facets := g.Categories(context.Background())
		assert.Len(t, facets, 1)
		assert.Equal(t, int32(2), client.searchCalls.Load())
	})
}

func TestNewVisitorID(t *testing.T) {
	t.Parallel()

	first := newVisitorID()
	second := newVisitorID()

	assert.Regexp(t, `^visitor_[0-9a-f]{16}$`, first)
	assert.NotEqual(t, first, second)
}
