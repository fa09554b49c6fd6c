package request

// RecommendRequest 상품 추천 요청
type RecommendRequest struct {
	// 논리적 모델명 (예: "recently_viewed", "similar_items").
	// 정의되지 않은 모델명은 기본 모델로 대체되므로 여기서는 형식만 검증합니다.
	Model string `json:"model" validate:"required" korean:"추천 모델"`
	// 추천의 기준이 되는 상품 ID. 상품 기반 모델에서만 사용됩니다.
	ProductID string `json:"product_id" korean:"상품 ID"`
	// 방문자 식별자. 생략 시 서버에서 임의로 생성됩니다.
	VisitorID string `json:"visitor_id" korean:"방문자 ID"`
	// 페이지 크기 (1~50, 기본값 6)
	PageSize int32 `json:"page_size" validate:"omitempty,min=1,max=50" korean:"페이지 크기"`
	// 필터 표현식. 업스트림에 그대로 전달됩니다.
	Filter string `json:"filter" korean:"필터"`
	// 업스트림에 전달할 추가 파라미터
	Params map[string]any `json:"params" korean:"추가 파라미터"`
	// 실제 추천 없이 요청 유효성만 검사할지 여부
	ValidateOnly bool `json:"validate_only" korean:"유효성 검사 전용"`
}
