package config

import (
	"fmt"
	"os"
	"strings"

	apperrors "github.com/darkkaiser/retail-gateway/internal/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "retail-gateway"

	// DefaultFilename 애플리케이션 초기화 시 참조하는 기본 설정 파일명입니다.
	// 실행 인자를 통해 명시적인 경로가 제공되지 않을 경우, 시스템은 이 파일을 탐색하여 구성을 로드합니다.
	DefaultFilename = AppName + ".json"

	// EnvPrefix 환경 변수 오버라이드에 사용되는 접두사입니다.
	EnvPrefix = "RETAIL_"
)

// 실행 환경 식별자입니다.
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)

// AppConfig 애플리케이션의 모든 설정을 관장하는 최상위 루트 구조체
type AppConfig struct {
	Debug       bool         `json:"debug"`
	Environment string       `json:"environment" validate:"oneof=development production"`
	GCP         GCPConfig    `json:"gcp"`
	Retail      RetailConfig `json:"retail"`
	Server      ServerConfig `json:"server"`
}

// validate 설정 파일 로드 직후, 각 설정 항목의 정합성과 필수 값의 유효성을 검증합니다.
func (c *AppConfig) validate() error {
	// 태그 기반 유효성 검사 (required, oneof, min/max 등)
	if err := validateStruct(c, "AppConfig"); err != nil {
		return err
	}

	// GCP 유효성 검사
	if err := c.GCP.validate(); err != nil {
		return err
	}

	// Retail 유효성 검사
	if err := c.Retail.validate(); err != nil {
		return err
	}

	// Server 유효성 검사
	if err := c.Server.validate(); err != nil {
		return err
	}

	return nil
}

// VerifyRecommendations 서비스 운영의 안정성과 보안을 위해 권장되는 설정 준수 여부를 진단합니다.
// 강제적인 에러를 발생시키지는 않으나, 잠재적 위험 요소(예: Well-known Port 사용)에 대한 경고 메시지를 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	var warnings []string

	warnings = append(warnings, c.Server.VerifyRecommendations()...)

	if c.GCP.CredentialsFile == "" {
		warnings = append(warnings, "GCP 인증 파일(gcp.credentials_file)이 설정되지 않았습니다. ADC(Application Default Credentials)로 인증을 시도합니다")
	}

	return warnings
}

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 경로의 설정 파일을 읽어 AppConfig 객체를 생성합니다.
//
// 로드 우선순위는 '기본값 < 설정 파일 < 환경 변수' 순입니다. 설정 파일이 존재하지
// 않는 것은 허용되며(환경 변수만으로 구동 가능), 파일이 존재하지만 파싱에 실패하는
// 경우에만 에러를 반환합니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. 기본값 로드 (가장 낮은 우선순위)
	if err := k.Load(structs.Provider(defaultConfig(), "json"), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일 로드 (기본값 덮어쓰기)
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if !os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
		}
	}

	// 3. 환경 변수 로드 (최우선 순위, JSON 설정 덮어쓰기)
	// 접두사: RETAIL_
	// 구분자: 이중 언더스코어(__)를 점(.)으로 변환 (계층 구조 표현)
	// 예: RETAIL_GCP__PROJECT_ID -> gcp.project_id
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 4. 구조체 언마샬링 (Strict Validation 적용)
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true, // 파일에 존재하지만 구조체에 없는 필드가 있을 경우 에러를 발생시킴
			WeaklyTypedInput: true,
		},
	}
	var appConfig AppConfig
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	// 5. 유효성 검사 수행 (정합성 체크)
	if err := appConfig.validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}

// defaultConfig 설정 파일 및 환경 변수가 제공되지 않았을 때 적용되는 기본값입니다.
// GCP 프로젝트 ID는 기본값이 없으며, 미설정 시 유효성 검사에서 실패합니다.
func defaultConfig() AppConfig {
	return AppConfig{
		Environment: EnvironmentDevelopment,
		GCP: GCPConfig{
			Location: "global",
		},
		Retail: RetailConfig{
			CatalogID:       "default_catalog",
			BranchID:        "0",
			SearchPlacement: "default_search",
			RPCTimeout:      "10s",
			Models: ModelsConfig{
				RecentlyViewed:           "recently_viewed_default",
				OthersYouMayLike:         "others_you_may_like",
				SimilarItems:             "similar_items",
				FrequentlyBoughtTogether: "frequently_bought_together",
				RecommendedForYou:        "recommended_for_you",
			},
			Hydration: HydrationConfig{
				Enabled:     false,
				Concurrency: 4,
			},
		},
		Server: ServerConfig{
			ListenPort: 8080,
			CORS: CORSConfig{
				AllowOrigins: []string{"http://localhost:3000"},
			},
		},
	}
}
