// Package handler API의 HTTP 요청 핸들러를 제공합니다.
//
// 이 패키지는 HTTP 요청을 받아 검증하고, 상품 Gateway를 호출한 후,
// 표준 Envelope 형식의 HTTP 응답을 반환하는 핸들러 함수들을 포함합니다.
package handler

import (
	"context"

	"github.com/darkkaiser/retail-gateway/internal/catalog"
	"github.com/darkkaiser/retail-gateway/internal/config"
	"github.com/darkkaiser/retail-gateway/internal/retail"
	"github.com/darkkaiser/retail-gateway/internal/service/api/constants"
	"github.com/darkkaiser/retail-gateway/internal/service/api/httputil"
	"github.com/darkkaiser/retail-gateway/internal/service/api/model/request"
	applog "github.com/darkkaiser/retail-gateway/pkg/log"
	"github.com/labstack/echo/v4"
)

// CatalogService 핸들러가 의존하는 상품 Gateway의 동작 집합입니다.
// 핸들러 테스트에서 실제 업스트림 없이 대체 구현을 주입할 수 있도록 인터페이스로 정의합니다.
type CatalogService interface {
	Search(ctx context.Context, in *catalog.SearchInput) (*catalog.SearchOutput, error)
	Autocomplete(ctx context.Context, in *catalog.AutocompleteInput) (*catalog.AutocompleteOutput, error)
	Recommend(ctx context.Context, in *catalog.RecommendInput) *catalog.RecommendOutput
	Categories(ctx context.Context) []catalog.CategoryFacet
	GetProduct(ctx context.Context, productID string) (*catalog.CanonicalProduct, error)
	ListProducts(ctx context.Context, in *catalog.ListProductsInput) (*catalog.ListProductsOutput, error)
	AvailableModels() []config.ModelInfo
}

// CatalogHandler 상품 검색/추천 API 요청을 처리하는 핸들러입니다.
//
// 이 구조체는 다음 역할을 수행합니다:
//   - HTTP 요청 바인딩 및 검증
//   - 상품 Gateway 호출
//   - 도메인 에러의 HTTP 상태 코드 변환
//   - 표준 Envelope 형식의 응답 생성
type CatalogHandler struct {
	svc CatalogService
}

// NewCatalogHandler CatalogHandler 인스턴스를 생성합니다.
func NewCatalogHandler(svc CatalogService) *CatalogHandler {
	if svc == nil {
		panic(constants.PanicMsgGatewayRequired)
	}

	return &CatalogHandler{
		svc: svc,
	}
}

// SearchHandler 상품 검색 요청을 처리합니다.
//
// POST /api/search
//
// 요청 본문의 경계값 검증에 실패하면 업스트림 호출 없이 400을 반환하며,
// 업스트림 실패는 에러 타입에 따른 HTTP 상태 코드로 전파됩니다.
func (h *CatalogHandler) SearchHandler(c echo.Context) error {
	req := new(request.SearchRequest)
	if err := c.Bind(req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	if err := ValidateRequest(req); err != nil {
		return httputil.NewBadRequestError(FormatValidationError(err))
	}

	out, err := h.svc.Search(c.Request().Context(), &catalog.SearchInput{
		Query:      req.Query,
		VisitorID:  req.VisitorID,
		PageSize:   req.PageSize,
		Offset:     req.Offset,
		PageToken:  req.PageToken,
		Filter:     req.Filter,
		OrderBy:    req.OrderBy,
		FacetSpecs: toRetailFacetSpecs(req.FacetSpecs),
	})
	if err != nil {
		return httputil.FromError(err)
	}

	h.log(c).WithFields(applog.Fields{
		"query":        req.Query,
		"result_count": len(out.Results),
		"total_size":   out.TotalSize,
	}).Debug("상품 검색 요청 처리 완료")

	return httputil.Data(c, out)
}

// AutocompleteHandler 검색어 자동완성 요청을 처리합니다.
//
// GET /api/search/autocomplete?query=...&max_suggestions=...
func (h *CatalogHandler) AutocompleteHandler(c echo.Context) error {
	req := new(request.AutocompleteRequest)
	if err := c.Bind(req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequest)
	}

	if err := ValidateRequest(req); err != nil {
		return httputil.NewBadRequestError(FormatValidationError(err))
	}

	out, err := h.svc.Autocomplete(c.Request().Context(), &catalog.AutocompleteInput{
		Query:          req.Query,
		VisitorID:      req.VisitorID,
		MaxSuggestions: req.MaxSuggestions,
	})
	if err != nil {
		return httputil.FromError(err)
	}

	return httputil.Data(c, out)
}

// RecommendHandler 상품 추천 요청을 처리합니다.
//
// POST /api/recommendations
//
// 업스트림 실패는 HTTP 에러로 변환되지 않습니다. Gateway가 빈 결과와 에러 설명이
// 담긴 출력을 반환하므로 이 핸들러는 항상 200 응답을 생성합니다. 추천 영역의
// 장애가 페이지 전체를 깨뜨리지 않도록 하는 의도된 정책입니다.
func (h *CatalogHandler) RecommendHandler(c echo.Context) error {
	req := new(request.RecommendRequest)
	if err := c.Bind(req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequestInvalidBody)
	}

	if err := ValidateRequest(req); err != nil {
		return httputil.NewBadRequestError(FormatValidationError(err))
	}

	out := h.svc.Recommend(c.Request().Context(), &catalog.RecommendInput{
		Model:        req.Model,
		ProductID:    req.ProductID,
		VisitorID:    req.VisitorID,
		PageSize:     req.PageSize,
		Filter:       req.Filter,
		Params:       req.Params,
		ValidateOnly: req.ValidateOnly,
	})

	if out.Error != "" {
		h.log(c).WithFields(applog.Fields{
			"model": req.Model,
			"error": out.Error,
		}).Warn("추천 요청이 빈 결과로 대체됨")
	}

	return httputil.Data(c, out)
}

// ModelsHandler 사용 가능한 추천 모델 목록을 반환합니다.
//
// GET /api/recommendations/models
func (h *CatalogHandler) ModelsHandler(c echo.Context) error {
	return httputil.Data(c, h.svc.AvailableModels())
}

// GetProductHandler 단일 상품 조회 요청을 처리합니다.
//
// GET /api/products/:id
func (h *CatalogHandler) GetProductHandler(c echo.Context) error {
	productID := c.Param("id")
	if productID == "" {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequest)
	}

	product, err := h.svc.GetProduct(c.Request().Context(), productID)
	if err != nil {
		return httputil.FromError(err)
	}

	return httputil.Data(c, product)
}

// ListProductsHandler 상품 목록 조회 요청을 처리합니다.
//
// GET /api/products?page_size=...&page_token=...&filter=...
func (h *CatalogHandler) ListProductsHandler(c echo.Context) error {
	req := new(request.ListProductsRequest)
	if err := c.Bind(req); err != nil {
		return httputil.NewBadRequestError(constants.ErrMsgBadRequest)
	}

	if err := ValidateRequest(req); err != nil {
		return httputil.NewBadRequestError(FormatValidationError(err))
	}

	out, err := h.svc.ListProducts(c.Request().Context(), &catalog.ListProductsInput{
		PageSize:  req.PageSize,
		PageToken: req.PageToken,
		Filter:    req.Filter,
	})
	if err != nil {
		return httputil.FromError(err)
	}

	return httputil.Data(c, out)
}

// CategoriesHandler 카테고리 Facet 목록을 반환합니다.
//
// GET /api/categories
//
// 업스트림 실패 시 Gateway가 빈 목록으로 대체하므로 이 핸들러는 항상 200을 반환합니다.
func (h *CatalogHandler) CategoriesHandler(c echo.Context) error {
	return httputil.Data(c, h.svc.Categories(c.Request().Context()))
}

// toRetailFacetSpecs 요청 모델의 Facet 정의를 Gateway 입력 타입으로 변환합니다.
func toRetailFacetSpecs(specs []request.FacetSpec) []retail.FacetSpec {
	if len(specs) == 0 {
		return nil
	}

	converted := make([]retail.FacetSpec, 0, len(specs))
	for _, spec := range specs {
		intervals := make([]retail.Interval, 0, len(spec.Intervals))
		for _, iv := range spec.Intervals {
			intervals = append(intervals, retail.Interval{
				Min: iv.Min,
				Max: iv.Max,
			})
		}

		converted = append(converted, retail.FacetSpec{
			Key:       spec.Key,
			Limit:     spec.Limit,
			Intervals: intervals,
		})
	}

	return converted
}

// log 공통 로깅 필드가 설정된 로거 엔트리를 반환합니다.
func (h *CatalogHandler) log(c echo.Context) *applog.Entry {
	return applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint": c.Path(),
	})
}
