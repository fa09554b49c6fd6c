package catalog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/darkkaiser/retail-gateway/internal/config"
	apperrors "github.com/darkkaiser/retail-gateway/internal/pkg/errors"
	"github.com/darkkaiser/retail-gateway/internal/retail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommend(t *testing.T) {
	t.Parallel()

	t.Run("모델명이 Serving Config 경로로 해석된다", func(t *testing.T) {
		t.Parallel()

		var captured *retail.PredictRequest
		client := &fakeClient{
			predictFn: func(_ context.Context, req *retail.PredictRequest) (*retail.PredictResponse, error) {
				captured = req
				return &retail.PredictResponse{}, nil
			},
		}
		g := New(newTestConfig(), client)

		g.Recommend(context.Background(), &RecommendInput{Model: config.ModelOthersYouMayLike})

		assert.Equal(t, "projects/test-project/locations/global/catalogs/default_catalog/placements/others_you_may_like", captured.Placement)
	})

	t.Run("알 수 없는 모델명은 기본 Serving Config로 대체된다", func(t *testing.T) {
		t.Parallel()

		var captured *retail.PredictRequest
		client := &fakeClient{
			predictFn: func(_ context.Context, req *retail.PredictRequest) (*retail.PredictResponse, error) {
				captured = req
				return &retail.PredictResponse{}, nil
			},
		}
		g := New(newTestConfig(), client)

		out := g.Recommend(context.Background(), &RecommendInput{Model: "no_such_model"})

		assert.Empty(t, out.Error, "모델명 오타가 요청 실패로 이어지면 안 됩니다")
		assert.Equal(t, "projects/test-project/locations/global/catalogs/default_catalog/placements/recently_viewed_default", captured.Placement)
	})

	t.Run("기준 상품이 필요한 모델은 상품이 포함된 상세 조회 이벤트를 사용한다", func(t *testing.T) {
		t.Parallel()

		var captured *retail.PredictRequest
		client := &fakeClient{
			predictFn: func(_ context.Context, req *retail.PredictRequest) (*retail.PredictResponse, error) {
				captured = req
				return &retail.PredictResponse{}, nil
			},
		}
		g := New(newTestConfig(), client)

		g.Recommend(context.Background(), &RecommendInput{
			Model:     config.ModelSimilarItems,
			ProductID: "SKU-1",
		})

		assert.Equal(t, "detail-page-view", captured.EventType)
		assert.Equal(t, "SKU-1", captured.ProductID)
	})

	t.Run("기준 상품이 필요 없는 모델은 홈 화면 조회 이벤트를 사용한다", func(t *testing.T) {
		t.Parallel()

		var captured *retail.PredictRequest
		client := &fakeClient{
			predictFn: func(_ context.Context, req *retail.PredictRequest) (*retail.PredictResponse, error) {
				captured = req
				return &retail.PredictResponse{}, nil
			},
		}
		g := New(newTestConfig(), client)

		// 상품 ID가 주어져도 이벤트에는 포함되지 않는다.
		g.Recommend(context.Background(), &RecommendInput{
			Model:     config.ModelRecommendedForYou,
			ProductID: "SKU-1",
		})

		assert.Equal(t, "home-page-view", captured.EventType)
		assert.Empty(t, captured.ProductID)
	})

	t.Run("returnProduct 파라미터가 항상 설정된다", func(t *testing.T) {
		t.Parallel()

		var captured *retail.PredictRequest
		client := &fakeClient{
			predictFn: func(_ context.Context, req *retail.PredictRequest) (*retail.PredictResponse, error) {
				captured = req
				return &retail.PredictResponse{}, nil
			},
		}
		g := New(newTestConfig(), client)

		g.Recommend(context.Background(), &RecommendInput{
			Model:  config.ModelRecentlyViewed,
			Params: map[string]any{"priceRerankLevel": "no-price-reranking"},
		})

		assert.Equal(t, true, captured.Params["returnProduct"])
		assert.Equal(t, "no-price-reranking", captured.Params["priceRerankLevel"])
	})

	t.Run("메타데이터의 상품 레코드가 정규화된다", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			predictFn: func(_ context.Context, _ *retail.PredictRequest) (*retail.PredictResponse, error) {
				return &retail.PredictResponse{
					Results: []retail.PredictResult{
						{
							ID: "SKU-1",
							Metadata: map[string]json.RawMessage{
								"product": json.RawMessage(`{"id": "SKU-1", "title": "추천 상품", "priceInfo": {"price": 30}}`),
							},
						},
						{ID: "SKU-2"},
					},
					AttributionToken: "token",
					MissingIDs:       []string{"SKU-9"},
				}, nil
			},
		}
		g := New(newTestConfig(), client)

		out := g.Recommend(context.Background(), &RecommendInput{Model: config.ModelRecentlyViewed})

		require.Len(t, out.Results, 2)
		require.NotNil(t, out.Results[0].Product)
		assert.Equal(t, "추천 상품", out.Results[0].Product.Title)
		assert.Nil(t, out.Results[1].Product, "상품 정보가 없으면 ID만 반환되어야 합니다")
		assert.Equal(t, "token", out.AttributionToken)
		assert.Equal(t, []string{"SKU-9"}, out.MissingIDs)
		assert.Empty(t, out.Error)
	})

	t.Run("업스트림 실패는 빈 결과와 에러 설명으로 감춰진다", func(t *testing.T) {
		t.Parallel()

		client := &fakeClient{
			predictFn: func(_ context.Context, _ *retail.PredictRequest) (*retail.PredictResponse, error) {
				return nil, apperrors.New(apperrors.Unavailable, "업스트림 장애")
			},
		}
		g := New(newTestConfig(), client)

		out := g.Recommend(context.Background(), &RecommendInput{Model: config.ModelRecentlyViewed})

		require.NotNil(t, out)
		assert.NotNil(t, out.Results)
		assert.Empty(t, out.Results)
		assert.Contains(t, out.Error, "업스트림 장애")
	})

	t.Run("페이지 크기 기본값은 6이다", func(t *testing.T) {
		t.Parallel()

		var captured *retail.PredictRequest
		client := &fakeClient{
			predictFn: func(_ context.Context, req *retail.PredictRequest) (*retail.PredictResponse, error) {
				captured = req
				return &retail.PredictResponse{}, nil
			},
		}
		g := New(newTestConfig(), client)

		g.Recommend(context.Background(), &RecommendInput{Model: config.ModelRecentlyViewed})

		assert.Equal(t, int32(6), captured.PageSize)
	})
}

func TestAvailableModels(t *testing.T) {
	t.Parallel()

	g := New(newTestConfig(), &fakeClient{})

	models := g.AvailableModels()
	require.Len(t, models, 5)

	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.Name)
	}
	assert.Contains(t, names, config.ModelSimilarItems)
	assert.Contains(t, names, config.ModelRecentlyViewed)
}
