package config

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/retail-gateway/internal/pkg/errors"
	"github.com/darkkaiser/retail-gateway/pkg/validation"
)

// 추천 모델의 논리적 식별자입니다. 클라이언트는 이 식별자로 추천 모델을 지정하며,
// 실제 Serving Config ID와의 매핑은 ModelsConfig가 담당합니다.
const (
	ModelRecentlyViewed           = "recently_viewed"
	ModelOthersYouMayLike         = "others_you_may_like"
	ModelSimilarItems             = "similar_items"
	ModelFrequentlyBoughtTogether = "frequently_bought_together"
	ModelRecommendedForYou        = "recommended_for_you"
)

// GCPConfig Google Cloud 프로젝트 및 인증 정보를 정의하는 설정 구조체
type GCPConfig struct {
	ProjectID string `json:"project_id" validate:"required"`

	// CredentialsFile 서비스 계정 키 파일 경로. 비어있으면 ADC(Application Default Credentials)를 사용합니다.
	CredentialsFile string `json:"credentials_file"`

	// Location Retail API 카탈로그의 위치. 현재 Retail API는 'global'만 지원합니다.
	Location string `json:"location"`
}

func (c *GCPConfig) validate() error {
	if strings.TrimSpace(c.ProjectID) == "" {
		return apperrors.New(apperrors.InvalidInput, "GCP 프로젝트 ID(gcp.project_id)가 설정되지 않았습니다")
	}

	if c.CredentialsFile != "" {
		if err := validation.ValidateFile(c.CredentialsFile); err != nil {
			return apperrors.Wrap(err, apperrors.NotFound, fmt.Sprintf("GCP 인증 파일(gcp.credentials_file)을 읽을 수 없습니다: '%s'", c.CredentialsFile))
		}
	}

	return nil
}

// RetailConfig Retail API 카탈로그, 서빙 설정 및 RPC 동작을 정의하는 설정 구조체
type RetailConfig struct {
	CatalogID       string          `json:"catalog_id" validate:"required"`
	BranchID        string          `json:"branch_id" validate:"required"`
	SearchPlacement string          `json:"search_placement" validate:"required"`
	RPCTimeout      string          `json:"rpc_timeout"`
	Models          ModelsConfig    `json:"models"`
	Hydration       HydrationConfig `json:"hydration"`
}

func (c *RetailConfig) validate() error {
	if strings.TrimSpace(c.CatalogID) == "" {
		return apperrors.New(apperrors.InvalidInput, "카탈로그 ID(retail.catalog_id)가 설정되지 않았습니다")
	}
	if strings.TrimSpace(c.BranchID) == "" {
		return apperrors.New(apperrors.InvalidInput, "브랜치 ID(retail.branch_id)가 설정되지 않았습니다")
	}
	if strings.TrimSpace(c.SearchPlacement) == "" {
		return apperrors.New(apperrors.InvalidInput, "검색 서빙 설정(retail.search_placement)이 설정되지 않았습니다")
	}

	if _, err := time.ParseDuration(c.RPCTimeout); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("RPC 타임아웃(retail.rpc_timeout) 설정이 올바르지 않습니다: '%s' (예: 10s, 500ms)", c.RPCTimeout))
	}

	if err := c.Models.validate(); err != nil {
		return err
	}

	return c.Hydration.validate()
}

// RPCTimeoutDuration 파싱된 RPC 타임아웃을 반환합니다. validate()를 통과한 설정에서만 호출해야 합니다.
func (c *RetailConfig) RPCTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.RPCTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// ModelsConfig 논리적 추천 모델명과 Retail API Serving Config ID 간의 매핑을 정의하는 구조체
type ModelsConfig struct {
	RecentlyViewed           string `json:"recently_viewed" validate:"required"`
	OthersYouMayLike         string `json:"others_you_may_like" validate:"required"`
	SimilarItems             string `json:"similar_items" validate:"required"`
	FrequentlyBoughtTogether string `json:"frequently_bought_together" validate:"required"`
	RecommendedForYou        string `json:"recommended_for_you" validate:"required"`
}

func (c *ModelsConfig) validate() error {
	for name, servingConfigID := range map[string]string{
		ModelRecentlyViewed:           c.RecentlyViewed,
		ModelOthersYouMayLike:         c.OthersYouMayLike,
		ModelSimilarItems:             c.SimilarItems,
		ModelFrequentlyBoughtTogether: c.FrequentlyBoughtTogether,
		ModelRecommendedForYou:        c.RecommendedForYou,
	} {
		if strings.TrimSpace(servingConfigID) == "" {
			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("추천 모델('%s')의 Serving Config ID(retail.models.%s)가 설정되지 않았습니다", name, name))
		}
	}
	return nil
}

// HydrationConfig 검색 결과에 누락된 상품 정보를 개별 조회로 보강하는 기능의 설정 구조체
type HydrationConfig struct {
	Enabled     bool `json:"enabled"`
	Concurrency int  `json:"concurrency" validate:"min=1,max=32"`
}

func (c *HydrationConfig) validate() error {
	if c.Concurrency < 1 || c.Concurrency > 32 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("상품 정보 보강 동시 실행 수(retail.hydration.concurrency)는 1에서 32 사이의 값이어야 합니다: %d", c.Concurrency))
	}
	return nil
}

// ServerConfig HTTP 서버의 포트 및 CORS 정책을 정의하는 구조체
type ServerConfig struct {
	ListenPort int        `json:"listen_port" validate:"min=1,max=65535"`
	CORS       CORSConfig `json:"cors"`
}

func (c *ServerConfig) validate() error {
	if err := validation.ValidatePort(c.ListenPort); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, "HTTP 서버 포트(server.listen_port)는 1에서 65535 사이의 값이어야 합니다")
	}
	return c.CORS.validate()
}

func (c *ServerConfig) VerifyRecommendations() []string {
	var warnings []string

	// 시스템 예약 포트(1024 미만) 사용 경고
	if c.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 이 경우 서버 구동 시 관리자 권한이 필요할 수 있습니다", c.ListenPort))
	}

	return warnings
}

// CORSConfig 웹 브라우저의 교차 출처 리소스 공유(CORS) 정책을 설정하는 구조체
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins"`
}

func (c *CORSConfig) validate() error {
	if len(c.AllowOrigins) == 0 {
		return apperrors.New(apperrors.InvalidInput, "CORS 허용 도메인(server.cors.allow_origins) 목록이 비어있습니다")
	}

	for _, origin := range c.AllowOrigins {
		if origin == "*" {
			if len(c.AllowOrigins) > 1 {
				return apperrors.New(apperrors.InvalidInput, "와일드카드(*)는 다른 도메인과 함께 사용할 수 없습니다. 모든 도메인을 허용하려면 와일드카드만 설정하세요")
			}
			continue
		}

		if err := validation.ValidateCORSOrigin(origin); err != nil {
			return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("CORS Origin 형식이 올바르지 않습니다: '%s' (형식: Scheme://Host[:Port], 예: https://example.com)", origin))
		}
	}

	return nil
}

// ------------------------------------------------------------------------------------------------
// Retail API 리소스 경로 헬퍼
// ------------------------------------------------------------------------------------------------

// CatalogPath Retail API 카탈로그의 전체 리소스 경로를 반환합니다.
// 예: projects/my-project/locations/global/catalogs/default_catalog
func (c *AppConfig) CatalogPath() string {
	return fmt.Sprintf("projects/%s/locations/%s/catalogs/%s", c.GCP.ProjectID, c.GCP.Location, c.Retail.CatalogID)
}

// BranchPath 상품이 저장된 브랜치의 전체 리소스 경로를 반환합니다.
func (c *AppConfig) BranchPath() string {
	return fmt.Sprintf("%s/branches/%s", c.CatalogPath(), c.Retail.BranchID)
}

// PlacementPath 지정된 Serving Config ID의 전체 리소스 경로를 반환합니다.
func (c *AppConfig) PlacementPath(servingConfigID string) string {
	return fmt.Sprintf("%s/placements/%s", c.CatalogPath(), servingConfigID)
}

// SearchPlacementPath 검색에 사용되는 Serving Config의 전체 리소스 경로를 반환합니다.
func (c *AppConfig) SearchPlacementPath() string {
	return c.PlacementPath(c.Retail.SearchPlacement)
}

// ProductName 상품 ID에 대한 전체 리소스 경로를 반환합니다.
func (c *AppConfig) ProductName(productID string) string {
	return fmt.Sprintf("%s/products/%s", c.BranchPath(), productID)
}

// ------------------------------------------------------------------------------------------------
// 추천 모델 테이블
// ------------------------------------------------------------------------------------------------

// ServingConfigFor 논리적 모델명에 해당하는 Serving Config ID를 반환합니다.
// 정의되지 않은 모델명이 입력되면 에러 대신 'recently_viewed' 모델의 Serving Config ID로
// 대체합니다. 클라이언트의 오타가 추천 영역 전체를 비우는 것을 막기 위한 동작입니다.
func (c *AppConfig) ServingConfigFor(model string) string {
	switch model {
	case ModelRecentlyViewed:
		return c.Retail.Models.RecentlyViewed
	case ModelOthersYouMayLike:
		return c.Retail.Models.OthersYouMayLike
	case ModelSimilarItems:
		return c.Retail.Models.SimilarItems
	case ModelFrequentlyBoughtTogether:
		return c.Retail.Models.FrequentlyBoughtTogether
	case ModelRecommendedForYou:
		return c.Retail.Models.RecommendedForYou
	default:
		return c.Retail.Models.RecentlyViewed
	}
}

// RequiresSeedProduct 해당 추천 모델이 기준 상품(Seed Product)을 필요로 하는지 반환합니다.
func RequiresSeedProduct(model string) bool {
	return model == ModelSimilarItems || model == ModelFrequentlyBoughtTogether
}

// ModelInfo 추천 모델의 메타 정보. 모델 목록 API 응답에 사용됩니다.
type ModelInfo struct {
	Name              string `json:"name"`
	ServingConfigID   string `json:"serving_config_id"`
	RequiresProductID bool   `json:"requires_product_id"`
}

// AvailableModels 사용 가능한 추천 모델의 목록을 반환합니다.
func (c *AppConfig) AvailableModels() []ModelInfo {
	models := []string{
		ModelRecentlyViewed,
		ModelOthersYouMayLike,
		ModelSimilarItems,
		ModelFrequentlyBoughtTogether,
		ModelRecommendedForYou,
	}

	infos := make([]ModelInfo, 0, len(models))
	for _, name := range models {
		infos = append(infos, ModelInfo{
			Name:              name,
			ServingConfigID:   c.ServingConfigFor(name),
			RequiresProductID: RequiresSeedProduct(name),
		})
	}
	return infos
}
