package config

import (
	"fmt"
	"reflect"
	"strings"

	apperrors "github.com/darkkaiser/retail-gateway/internal/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// validate 패키지 전역 Validator 인스턴스. 스레드 안전하므로 공유해도 무방합니다.
var validate = newValidator()

// newValidator 새로운 Validator 인스턴스를 생성합니다.
func newValidator() *validator.Validate {
	v := validator.New()

	// 검증 에러가 났을 때, 에러 메시지에 Go 구조체 필드명(예: ListenPort) 대신 JSON 이름(예: listen_port)을 보여주도록 설정합니다.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// validateStruct 구조체 인스턴스의 유효성을 태그 규칙에 따라 검증하고, 발생한 오류를 사용자 친화적인 도메인 에러로 변환합니다.
func validateStruct(s interface{}, contextName string) error {
	if err := validate.Struct(s); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			// 첫 번째 에러만 상세히 보고
			firstErr := validationErrors[0]

			// 필드별(Field) 커스텀 에러 처리
			switch firstErr.StructField() {
			case "Environment":
				return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("실행 환경(environment)은 'development' 또는 'production'이어야 합니다: '%v'", firstErr.Value()))
			case "ProjectID":
				return apperrors.New(apperrors.InvalidInput, "GCP 프로젝트 ID(gcp.project_id)가 설정되지 않았습니다")
			case "ListenPort":
				return apperrors.New(apperrors.InvalidInput, "HTTP 서버 포트(server.listen_port)는 1에서 65535 사이의 값이어야 합니다")
			case "Concurrency":
				return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("상품 정보 보강 동시 실행 수(retail.hydration.concurrency)는 1에서 32 사이의 값이어야 합니다: '%v'", firstErr.Value()))
			}

			// 태그별(Tag) 공통 에러 처리
			if firstErr.Tag() == "required" {
				return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s의 필수 설정(%s)이 비어있습니다", contextName, firstErr.Field()))
			}

			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s의 설정이 올바르지 않습니다: %s (조건: %s)", contextName, firstErr.Field(), firstErr.Tag()))
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("%s 유효성 검증에 실패했습니다", contextName))
	}
	return nil
}
