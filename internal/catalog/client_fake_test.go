package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"

	"github.com/darkkaiser/retail-gateway/internal/config"
	"github.com/darkkaiser/retail-gateway/internal/retail"
)

// fakeClient 테스트용 retail.Client 구현체. 각 메서드의 동작을 함수 필드로
// 주입하며, 주입되지 않은 메서드는 에러를 반환합니다.
type fakeClient struct {
	searchFn       func(ctx context.Context, req *retail.SearchRequest) (*retail.SearchResponse, error)
	completeFn     func(ctx context.Context, req *retail.CompleteQueryRequest) (*retail.CompleteQueryResponse, error)
	predictFn      func(ctx context.Context, req *retail.PredictRequest) (*retail.PredictResponse, error)
	getProductFn   func(ctx context.Context, name string) (json.RawMessage, error)
	listProductsFn func(ctx context.Context, req *retail.ListProductsRequest) (*retail.ListProductsResponse, error)

	searchCalls     atomic.Int32
	getProductCalls atomic.Int32
}

var _ retail.Client = (*fakeClient)(nil)

var errFakeNotConfigured = errors.New("fake: not configured")

func (f *fakeClient) Search(ctx context.Context, req *retail.SearchRequest) (*retail.SearchResponse, error) {
	f.searchCalls.Add(1)
	if f.searchFn == nil {
		return nil, errFakeNotConfigured
	}
	return f.searchFn(ctx, req)
}

func (f *fakeClient) CompleteQuery(ctx context.Context, req *retail.CompleteQueryRequest) (*retail.CompleteQueryResponse, error) {
	if f.completeFn == nil {
		return nil, errFakeNotConfigured
	}
	return f.completeFn(ctx, req)
}

func (f *fakeClient) Predict(ctx context.Context, req *retail.PredictRequest) (*retail.PredictResponse, error) {
	if f.predictFn == nil {
		return nil, errFakeNotConfigured
	}
	return f.predictFn(ctx, req)
}

func (f *fakeClient) GetProduct(ctx context.Context, name string) (json.RawMessage, error) {
	f.getProductCalls.Add(1)
	if f.getProductFn == nil {
		return nil, errFakeNotConfigured
	}
	return f.getProductFn(ctx, name)
}

func (f *fakeClient) ListProducts(ctx context.Context, req *retail.ListProductsRequest) (*retail.ListProductsResponse, error) {
	if f.listProductsFn == nil {
		return nil, errFakeNotConfigured
	}
	return f.listProductsFn(ctx, req)
}

func (f *fakeClient) Close() error { return nil }

// newTestConfig 게이트웨이 테스트에 사용하는 최소 설정을 생성합니다.
func newTestConfig() *config.AppConfig {
	return &config.AppConfig{
		Environment: "development",
		GCP: config.GCPConfig{
			ProjectID: "test-project",
			Location:  "global",
		},
		Retail: config.RetailConfig{
			CatalogID:       "default_catalog",
			BranchID:        "0",
			SearchPlacement: "default_search",
			RPCTimeout:      "10s",
			Models: config.ModelsConfig{
				RecentlyViewed:           "recently_viewed_default",
				OthersYouMayLike:         "others_you_may_like",
				SimilarItems:             "similar_items",
				FrequentlyBoughtTogether: "frequently_bought_together",
				RecommendedForYou:        "recommended_for_you",
			},
			Hydration: config.HydrationConfig{
				Enabled:     false,
				Concurrency: 4,
			},
		},
		Server: config.ServerConfig{
			ListenPort: 8080,
			CORS: config.CORSConfig{
				AllowOrigins: []string{"*"},
			},
		},
	}
}
