package request

// ListProductsRequest 상품 목록 조회 요청 (쿼리 파라미터로 바인딩)
type ListProductsRequest struct {
	// 페이지 크기 (1~100, 기본값 20)
	PageSize int32 `query:"page_size" validate:"omitempty,min=1,max=100" korean:"페이지 크기"`
	// 페이지 연속 토큰. 빈 문자열은 첫 페이지를 의미합니다.
	PageToken string `query:"page_token" korean:"페이지 토큰"`
	// 필터 표현식. 업스트림에 그대로 전달됩니다.
	Filter string `query:"filter" korean:"필터"`
}
