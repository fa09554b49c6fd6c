package log

import (
	log "github.com/sirupsen/logrus"
)

// StandardLogger 전역 Logrus 로거 인스턴스를 반환합니다.
// Echo 등 외부 프레임워크와 로거를 통합할 때 사용합니다.
func StandardLogger() *Logger {
	return log.StandardLogger()
}

// SetDebugMode Debug 모드에 따라 로그 레벨을 설정합니다.
//   - Debug 모드: Trace 레벨 (모든 로그 출력)
//   - 운영 모드: Info 레벨 (Info, Warn, Error, Fatal만 출력)
func SetDebugMode(debug bool) {
	if debug {
		log.SetLevel(log.TraceLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// WithComponent component 필드를 포함한 로그 Entry를 반환합니다.
// 모든 로그에 component 필드를 일관되게 추가하기 위해 사용합니다.
func WithComponent(component string) *log.Entry {
	return log.WithFields(log.Fields{
		"component": component,
	})
}

// WithComponentAndFields component 필드와 추가 필드를 포함한 로그 Entry를 반환합니다.
func WithComponentAndFields(component string, fields log.Fields) *log.Entry {
	newFields := make(log.Fields, len(fields)+1)
	for k, v := range fields {
		newFields[k] = v
	}
	newFields["component"] = component

	return log.WithFields(newFields)
}

// WithFields 추가 필드를 포함한 로그 Entry를 반환합니다.
func WithFields(fields log.Fields) *log.Entry {
	return log.WithFields(fields)
}

// Mask 민감한 정보를 마스킹합니다.
// 자격증명 파일 경로, 토큰 등의 민감 정보를 안전하게 로깅하기 위해 사용합니다.
func Mask(data string) string {
	if data == "" {
		return ""
	}

	// 3자 이하는 전체 마스킹
	if len(data) <= 3 {
		return "***"
	}

	// 앞 4자만 표시하고 나머지는 마스킹
	if len(data) <= 12 {
		return data[:4] + "***"
	}

	// 긴 값은 앞 4자 + 마스킹 + 뒤 4자
	return data[:4] + "***" + data[len(data)-4:]
}
