package api

import (
	"github.com/darkkaiser/retail-gateway/internal/service/api/handler"
	"github.com/darkkaiser/retail-gateway/internal/service/api/handler/system"
	"github.com/darkkaiser/retail-gateway/internal/service/api/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes API 서비스의 라우트를 등록합니다.
//
// 다음 엔드포인트들을 설정합니다:
//   - 시스템 엔드포인트: 서비스 상태 확인(/health) 및 버전 정보(/version)
//   - 상품 API: 검색, 자동완성, 추천, 상품 조회, 카테고리 (/api/*)
//
// 본문이 있는 엔드포인트(POST)에는 Content-Type 검증 미들웨어가 적용됩니다.
func RegisterRoutes(e *echo.Echo, systemHandler *system.Handler, catalogHandler *handler.CatalogHandler) {
	registerSystemRoutes(e, systemHandler)
	registerCatalogRoutes(e, catalogHandler)
}

func registerSystemRoutes(e *echo.Echo, h *system.Handler) {
	e.GET("/health", h.HealthCheckHandler)
	e.GET("/version", h.VersionHandler)
}

func registerCatalogRoutes(e *echo.Echo, h *handler.CatalogHandler) {
	apiGroup := e.Group("/api")

	jsonBody := middleware.ValidateContentType(echo.MIMEApplicationJSON)

	apiGroup.POST("/search", h.SearchHandler, jsonBody)
	apiGroup.GET("/search/autocomplete", h.AutocompleteHandler)

	apiGroup.POST("/recommendations", h.RecommendHandler, jsonBody)
	apiGroup.GET("/recommendations/models", h.ModelsHandler)

	apiGroup.GET("/products", h.ListProductsHandler)
	apiGroup.GET("/products/:id", h.GetProductHandler)

	apiGroup.GET("/categories", h.CategoriesHandler)
}
