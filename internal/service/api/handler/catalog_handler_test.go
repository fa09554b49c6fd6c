package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/darkkaiser/retail-gateway/internal/catalog"
	"github.com/darkkaiser/retail-gateway/internal/config"
	apperrors "github.com/darkkaiser/retail-gateway/internal/pkg/errors"
	"github.com/darkkaiser/retail-gateway/internal/service/api/httputil"
	"github.com/darkkaiser/retail-gateway/internal/service/api/model/response"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog CatalogService의 테스트용 구현체입니다.
// 설정된 함수 필드만 동작하며, 설정되지 않은 메서드 호출은 테스트 실패를 의미합니다.
type fakeCatalog struct {
	searchFn       func(ctx context.Context, in *catalog.SearchInput) (*catalog.SearchOutput, error)
	autocompleteFn func(ctx context.Context, in *catalog.AutocompleteInput) (*catalog.AutocompleteOutput, error)
	recommendFn    func(ctx context.Context, in *catalog.RecommendInput) *catalog.RecommendOutput
	categoriesFn   func(ctx context.Context) []catalog.CategoryFacet
	getProductFn   func(ctx context.Context, productID string) (*catalog.CanonicalProduct, error)
	listProductsFn func(ctx context.Context, in *catalog.ListProductsInput) (*catalog.ListProductsOutput, error)
	modelsFn       func() []config.ModelInfo
}

var _ CatalogService = (*fakeCatalog)(nil)

func (f *fakeCatalog) Search(ctx context.Context, in *catalog.SearchInput) (*catalog.SearchOutput, error) {
	return f.searchFn(ctx, in)
}

func (f *fakeCatalog) Autocomplete(ctx context.Context, in *catalog.AutocompleteInput) (*catalog.AutocompleteOutput, error) {
	return f.autocompleteFn(ctx, in)
}

func (f *fakeCatalog) Recommend(ctx context.Context, in *catalog.RecommendInput) *catalog.RecommendOutput {
	return f.recommendFn(ctx, in)
}

func (f *fakeCatalog) Categories(ctx context.Context) []catalog.CategoryFacet {
	return f.categoriesFn(ctx)
}

func (f *fakeCatalog) GetProduct(ctx context.Context, productID string) (*catalog.CanonicalProduct, error) {
	return f.getProductFn(ctx, productID)
}

func (f *fakeCatalog) ListProducts(ctx context.Context, in *catalog.ListProductsInput) (*catalog.ListProductsOutput, error) {
	return f.listProductsFn(ctx, in)
}

func (f *fakeCatalog) AvailableModels() []config.ModelInfo {
	return f.modelsFn()
}

// newTestServer 전역 에러 핸들러와 상품 API 라우트가 설정된 테스트용 Echo 서버를 생성합니다.
func newTestServer(svc CatalogService) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = httputil.ErrorHandler

	h := NewCatalogHandler(svc)
	e.POST("/api/search", h.SearchHandler)
	e.GET("/api/search/autocomplete", h.AutocompleteHandler)
	e.POST("/api/recommendations", h.RecommendHandler)
	e.GET("/api/recommendations/models", h.ModelsHandler)
	e.GET("/api/products", h.ListProductsHandler)
	e.GET("/api/products/:id", h.GetProductHandler)
	e.GET("/api/categories", h.CategoriesHandler)

	return e
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestNewCatalogHandler(t *testing.T) {
	t.Parallel()

	t.Run("nil 서비스는 패닉을 일으킨다", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() {
			NewCatalogHandler(nil)
		})
	})
}

func TestSearchHandler(t *testing.T) {
	t.Parallel()

	t.Run("검색 결과가 Envelope에 담겨 반환된다", func(t *testing.T) {
		t.Parallel()

		var captured *catalog.SearchInput
		svc := &fakeCatalog{
			searchFn: func(_ context.Context, in *catalog.SearchInput) (*catalog.SearchOutput, error) {
				captured = in
				return &catalog.SearchOutput{
					Results:   []catalog.SearchResultItem{{ID: "SKU-1", Product: &catalog.CanonicalProduct{ID: "SKU-1", Title: "스니커즈"}}},
					TotalSize: 1,
				}, nil
			},
		}

		rec := doJSON(newTestServer(svc), http.MethodPost, "/api/search",
			`{"query":"sneakers","page_size":30,"offset":10,"filter":"brands:\"acme\""}`)

		require.Equal(t, http.StatusOK, rec.Code)

		envelope := decodeEnvelope(t, rec)
		assert.True(t, envelope.Success)
		assert.Empty(t, envelope.Error)

		require.NotNil(t, captured)
		assert.Equal(t, "sneakers", captured.Query)
		assert.Equal(t, int32(30), captured.PageSize)
		assert.Equal(t, int32(10), captured.Offset)
		assert.Equal(t, `brands:"acme"`, captured.Filter)
	})

	t.Run("요청 본문의 Facet 정의가 Gateway 입력으로 변환된다", func(t *testing.T) {
		t.Parallel()

		var captured *catalog.SearchInput
		svc := &fakeCatalog{
			searchFn: func(_ context.Context, in *catalog.SearchInput) (*catalog.SearchOutput, error) {
				captured = in
				return &catalog.SearchOutput{Results: []catalog.SearchResultItem{}}, nil
			},
		}

		body := `{"query":"tv","facet_specs":[{"key":"priceInfo.price","limit":10,"intervals":[{"min":0,"max":100},{"min":100}]}]}`
		rec := doJSON(newTestServer(svc), http.MethodPost, "/api/search", body)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, captured)
		require.Len(t, captured.FacetSpecs, 1)

		spec := captured.FacetSpecs[0]
		assert.Equal(t, "priceInfo.price", spec.Key)
		assert.Equal(t, int32(10), spec.Limit)
		require.Len(t, spec.Intervals, 2)
		assert.Equal(t, float64(0), spec.Intervals[0].Min)
		require.NotNil(t, spec.Intervals[0].Max)
		assert.Equal(t, float64(100), *spec.Intervals[0].Max)
		assert.Nil(t, spec.Intervals[1].Max, "상한이 없는 구간은 Max가 nil이어야 합니다")
	})

	t.Run("페이지 크기 초과는 업스트림 호출 없이 400으로 거부된다", func(t *testing.T) {
		t.Parallel()

		called := false
		svc := &fakeCatalog{
			searchFn: func(_ context.Context, _ *catalog.SearchInput) (*catalog.SearchOutput, error) {
				called = true
				return nil, nil
			},
		}

		rec := doJSON(newTestServer(svc), http.MethodPost, "/api/search", `{"query":"tv","page_size":500}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, called, "검증 실패 시 업스트림을 호출하면 안 됩니다")

		envelope := decodeEnvelope(t, rec)
		assert.False(t, envelope.Success)
		assert.NotEmpty(t, envelope.Error)
	})

	t.Run("잘못된 JSON 본문은 400으로 거부된다", func(t *testing.T) {
		t.Parallel()

		svc := &fakeCatalog{}
		rec := doJSON(newTestServer(svc), http.MethodPost, "/api/search", `{not json`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		envelope := decodeEnvelope(t, rec)
		assert.False(t, envelope.Success)
	})

	t.Run("업스트림 Unavailable 실패는 503 Envelope으로 전파된다", func(t *testing.T) {
		t.Parallel()

		svc := &fakeCatalog{
			searchFn: func(_ context.Context, _ *catalog.SearchInput) (*catalog.SearchOutput, error) {
				return nil, apperrors.New(apperrors.Unavailable, "quota exceeded")
			},
		}

		rec := doJSON(newTestServer(svc), http.MethodPost, "/api/search", `{"query":"tv"}`)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		envelope := decodeEnvelope(t, rec)
		assert.False(t, envelope.Success)
		assert.NotEmpty(t, envelope.Error)
	})
}

func TestAutocompleteHandler(t *testing.T) {
	t.Parallel()

	t.Run("쿼리 파라미터가 Gateway 입력으로 전달된다", func(t *testing.T) {
		t.Parallel()

		var captured *catalog.AutocompleteInput
		svc := &fakeCatalog{
			autocompleteFn: func(_ context.Context, in *catalog.AutocompleteInput) (*catalog.AutocompleteOutput, error) {
				captured = in
				return &catalog.AutocompleteOutput{}, nil
			},
		}

		rec := doJSON(newTestServer(svc), http.MethodGet, "/api/search/autocomplete?query=sne&max_suggestions=10", "")

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, captured)
		assert.Equal(t, "sne", captured.Query)
		assert.Equal(t, int32(10), captured.MaxSuggestions)
	})

	t.Run("query 파라미터가 없으면 400으로 거부된다", func(t *testing.T) {
		t.Parallel()

		svc := &fakeCatalog{}
		rec := doJSON(newTestServer(svc), http.MethodGet, "/api/search/autocomplete", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		envelope := decodeEnvelope(t, rec)
		assert.False(t, envelope.Success)
		assert.Contains(t, envelope.Error, "검색어")
	})

	t.Run("max_suggestions 상한 초과는 400으로 거부된다", func(t *testing.T) {
		t.Parallel()

		svc := &fakeCatalog{}
		rec := doJSON(newTestServer(svc), http.MethodGet, "/api/search/autocomplete?query=a&max_suggestions=50", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRecommendHandler(t *testing.T) {
	t.Parallel()

	t.Run("추천 결과가 200 Envelope으로 반환된다", func(t *testing.T) {
		t.Parallel()

		var captured *catalog.RecommendInput
		svc := &fakeCatalog{
			recommendFn: func(_ context.Context, in *catalog.RecommendInput) *catalog.RecommendOutput {
				captured = in
				return &catalog.RecommendOutput{
					Results: []catalog.RecommendResultItem{{ID: "SKU-9"}},
				}
			},
		}

		body := `{"model":"similar_items","product_id":"SKU-1","page_size":4}`
		rec := doJSON(newTestServer(svc), http.MethodPost, "/api/recommendations", body)

		require.Equal(t, http.StatusOK, rec.Code)

		envelope := decodeEnvelope(t, rec)
		assert.True(t, envelope.Success)

		require.NotNil(t, captured)
		assert.Equal(t, "similar_items", captured.Model)
		assert.Equal(t, "SKU-1", captured.ProductID)
		assert.Equal(t, int32(4), captured.PageSize)
	})

	t.Run("업스트림 실패 시에도 HTTP 200과 빈 결과가 반환된다", func(t *testing.T) {
		t.Parallel()

		svc := &fakeCatalog{
			recommendFn: func(_ context.Context, _ *catalog.RecommendInput) *catalog.RecommendOutput {
				return &catalog.RecommendOutput{
					Results: []catalog.RecommendResultItem{},
					Error:   "upstream unavailable",
				}
			},
		}

		rec := doJSON(newTestServer(svc), http.MethodPost, "/api/recommendations", `{"model":"recently_viewed"}`)

		require.Equal(t, http.StatusOK, rec.Code, "추천 실패는 HTTP 에러로 변환되면 안 됩니다")

		envelope := decodeEnvelope(t, rec)
		assert.True(t, envelope.Success)

		data, err := json.Marshal(envelope.Data)
		require.NoError(t, err)

		var out catalog.RecommendOutput
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Empty(t, out.Results)
		assert.Equal(t, "upstream unavailable", out.Error)
	})

	t.Run("model 필드가 없으면 400으로 거부된다", func(t *testing.T) {
		t.Parallel()

		svc := &fakeCatalog{}
		rec := doJSON(newTestServer(svc), http.MethodPost, "/api/recommendations", `{"page_size":4}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		envelope := decodeEnvelope(t, rec)
		assert.False(t, envelope.Success)
		assert.Contains(t, envelope.Error, "추천 모델")
	})

	t.Run("page_size 상한(50) 초과는 400으로 거부된다", func(t *testing.T) {
		t.Parallel()

		svc := &fakeCatalog{}
		rec := doJSON(newTestServer(svc), http.MethodPost, "/api/recommendations", `{"model":"recently_viewed","page_size":51}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestModelsHandler(t *testing.T) {
	t.Parallel()

	svc := &fakeCatalog{
		modelsFn: func() []config.ModelInfo {
			return []config.ModelInfo{
				{Name: "recently_viewed", ServingConfigID: "recently_viewed_default", RequiresProductID: false},
				{Name: "similar_items", ServingConfigID: "similar_items_default", RequiresProductID: true},
			}
		},
	}

	rec := doJSON(newTestServer(svc), http.MethodGet, "/api/recommendations/models", "")

	require.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec)
	assert.True(t, envelope.Success)

	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)

	var models []config.ModelInfo
	require.NoError(t, json.Unmarshal(data, &models))
	require.Len(t, models, 2)
	assert.Equal(t, "recently_viewed", models[0].Name)
	assert.True(t, models[1].RequiresProductID)
}

func TestGetProductHandler(t *testing.T) {
	t.Parallel()

	t.Run("상품이 Envelope에 담겨 반환된다", func(t *testing.T) {
		t.Parallel()

		svc := &fakeCatalog{
			getProductFn: func(_ context.Context, productID string) (*catalog.CanonicalProduct, error) {
				assert.Equal(t, "SKU-123", productID)
				return &catalog.CanonicalProduct{ID: "SKU-123", Title: "스니커즈"}, nil
			},
		}

		rec := doJSON(newTestServer(svc), http.MethodGet, "/api/products/SKU-123", "")

		require.Equal(t, http.StatusOK, rec.Code)

		envelope := decodeEnvelope(t, rec)
		assert.True(t, envelope.Success)
	})

	t.Run("존재하지 않는 상품은 404 Envelope으로 반환된다", func(t *testing.T) {
		t.Parallel()

		svc := &fakeCatalog{
			getProductFn: func(_ context.Context, _ string) (*catalog.CanonicalProduct, error) {
				return nil, apperrors.New(apperrors.NotFound, "상품을 찾을 수 없습니다")
			},
		}

		rec := doJSON(newTestServer(svc), http.MethodGet, "/api/products/NOPE", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)

		envelope := decodeEnvelope(t, rec)
		assert.False(t, envelope.Success)
		assert.Equal(t, "상품을 찾을 수 없습니다", envelope.Error)
	})
}

func TestListProductsHandler(t *testing.T) {
	t.Parallel()

	t.Run("쿼리 파라미터가 Gateway 입력으로 전달된다", func(t *testing.T) {
		t.Parallel()

		var captured *catalog.ListProductsInput
		svc := &fakeCatalog{
			listProductsFn: func(_ context.Context, in *catalog.ListProductsInput) (*catalog.ListProductsOutput, error) {
				captured = in
				return &catalog.ListProductsOutput{Products: []*catalog.CanonicalProduct{}, NextPageToken: "tok-2"}, nil
			},
		}

		rec := doJSON(newTestServer(svc), http.MethodGet, "/api/products?page_size=50&page_token=tok-1", "")

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, captured)
		assert.Equal(t, int32(50), captured.PageSize)
		assert.Equal(t, "tok-1", captured.PageToken)
	})

	t.Run("page_size 상한(100) 초과는 400으로 거부된다", func(t *testing.T) {
		t.Parallel()

		svc := &fakeCatalog{}
		rec := doJSON(newTestServer(svc), http.MethodGet, "/api/products?page_size=101", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCategoriesHandler(t *testing.T) {
	t.Parallel()

	t.Run("카테고리 목록이 Envelope에 담겨 반환된다", func(t *testing.T) {
		t.Parallel()

		svc := &fakeCatalog{
			categoriesFn: func(_ context.Context) []catalog.CategoryFacet {
				return []catalog.CategoryFacet{
					{Name: "Books & Media", Slug: "books-media", Count: 42},
				}
			},
		}

		rec := doJSON(newTestServer(svc), http.MethodGet, "/api/categories", "")

		require.Equal(t, http.StatusOK, rec.Code)

		envelope := decodeEnvelope(t, rec)
		assert.True(t, envelope.Success)

		data, err := json.Marshal(envelope.Data)
		require.NoError(t, err)

		var facets []catalog.CategoryFacet
		require.NoError(t, json.Unmarshal(data, &facets))
		require.Len(t, facets, 1)
		assert.Equal(t, "books-media", facets[0].Slug)
	})

	t.Run("업스트림 실패로 비어있어도 200과 빈 목록이 반환된다", func(t *testing.T) {
		t.Parallel()

		svc := &fakeCatalog{
			categoriesFn: func(_ context.Context) []catalog.CategoryFacet {
				return []catalog.CategoryFacet{}
			},
		}

		rec := doJSON(newTestServer(svc), http.MethodGet, "/api/categories", "")

		require.Equal(t, http.StatusOK, rec.Code)

		envelope := decodeEnvelope(t, rec)
		assert.True(t, envelope.Success)
	})
}
