package catalog

import (
	"context"

	"github.com/darkkaiser/retail-gateway/internal/config"
	"github.com/darkkaiser/retail-gateway/internal/retail"
	applog "github.com/darkkaiser/retail-gateway/pkg/log"
	log "github.com/sirupsen/logrus"
)

const (
	// defaultRecommendPageSize 추천 결과 수 기본값
	defaultRecommendPageSize = 6

	// 합성 사용자 이벤트의 타입. 기준 상품이 필요한 모델은 상품 상세 조회
	// 이벤트를, 그 외에는 홈 화면 조회 이벤트를 사용한다.
	eventTypeDetailPageView = "detail-page-view"
	eventTypeHomePageView   = "home-page-view"
)

// RecommendInput 추천 입력
type RecommendInput struct {
	Model        string
	ProductID    string
	VisitorID    string
	PageSize     int32
	Filter       string
	Params       map[string]any
	ValidateOnly bool
}

// RecommendResultItem 추천 결과의 개별 항목. 업스트림이 상품 정보를 포함하지
// 않은 경우 Product는 nil이며 ID만 채워집니다.
type RecommendResultItem struct {
	ID      string            `json:"id"`
	Product *CanonicalProduct `json:"product,omitempty"`
}

// RecommendOutput 추천 결과. 업스트림 실패 시에도 에러 대신 빈 결과와
// Error 메시지가 채워진 출력이 반환됩니다.
type RecommendOutput struct {
	Results          []RecommendResultItem `json:"results"`
	AttributionToken string                `json:"attribution_token,omitempty"`
	MissingIDs       []string              `json:"missing_ids,omitempty"`
	ValidateOnly     bool                  `json:"validate_only,omitempty"`
	Error            string                `json:"error,omitempty"`
}

// Recommend 상품 추천을 수행합니다.
//
// 모델명은 고정된 논리 모델 테이블에서 Serving Config로 해석되며, 알 수 없는
// 모델명은 기본 모델로 대체됩니다. 업스트림 실패는 전파되지 않고 빈 결과에
// 에러 설명을 담아 반환합니다. 추천 영역의 장애가 페이지 전체를 깨뜨리지 않도록
// 하는 의도된 비대칭 정책이며, 검색(Search)의 실패 정책과 다릅니다.
func (g *Gateway) Recommend(ctx context.Context, in *RecommendInput) *RecommendOutput {
	servingConfigID := g.cfg.ServingConfigFor(in.Model)

	pageSize := in.PageSize
	if pageSize <= 0 {
		pageSize = defaultRecommendPageSize
	}

	visitorID := in.VisitorID
	if visitorID == "" {
		visitorID = newVisitorID()
	}

	eventType := eventTypeHomePageView
	productID := ""
	if config.RequiresSeedProduct(in.Model) {
		eventType = eventTypeDetailPageView
		productID = in.ProductID
	}

	// 상품 정보를 ID와 함께 돌려받기 위해 returnProduct 파라미터를 강제한다.
	params := make(map[string]any, len(in.Params)+1)
	for key, value := range in.Params {
		params[key] = value
	}
	params["returnProduct"] = true

	resp, err := g.client.Predict(ctx, &retail.PredictRequest{
		Placement:    g.cfg.PlacementPath(servingConfigID),
		VisitorID:    visitorID,
		EventType:    eventType,
		ProductID:    productID,
		PageSize:     pageSize,
		Filter:       in.Filter,
		ValidateOnly: in.ValidateOnly,
		Params:       params,
	})
	if err != nil {
		applog.WithComponentAndFields(component, log.Fields{
			"model":          in.Model,
			"serving_config": servingConfigID,
			"error":          err,
		}).Warn("추천 조회에 실패하여 빈 결과를 반환합니다")

		return &RecommendOutput{
			Results: []RecommendResultItem{},
			Error:   err.Error(),
		}
	}

	out := &RecommendOutput{
		Results:          make([]RecommendResultItem, 0, len(resp.Results)),
		AttributionToken: resp.AttributionToken,
		MissingIDs:       resp.MissingIDs,
		ValidateOnly:     resp.ValidateOnly,
	}

	for _, result := range resp.Results {
		item := RecommendResultItem{ID: result.ID}

		if record, ok := result.Metadata["product"]; ok {
			product, err := Normalize(record)
			if err != nil {
				applog.WithComponentAndFields(component, log.Fields{
					"product_id": result.ID,
					"error":      err,
				}).Warn("추천 상품의 정규화에 실패하여 ID만 반환합니다")
			} else {
				item.Product = product
			}
		}

		out.Results = append(out.Results, item)
	}

	return out
}

// AvailableModels 사용 가능한 추천 모델의 목록을 반환합니다.
func (g *Gateway) AvailableModels() []config.ModelInfo {
	return g.cfg.AvailableModels()
}
