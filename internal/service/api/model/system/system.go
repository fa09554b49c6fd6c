// Package system 시스템 엔드포인트(헬스체크, 버전 정보)의 응답 모델을 정의합니다.
package system

// HealthResponse 헬스체크 응답
type HealthResponse struct {
	// Status 전체 서버 상태 (healthy, unhealthy)
	Status string `json:"status"`

	// Uptime 서버 가동 시간(초)
	Uptime int64 `json:"uptime"`

	// Dependencies 외부 의존성별 상태
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

// DependencyStatus 개별 외부 의존성의 상태
type DependencyStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// VersionResponse 버전 정보 응답
type VersionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}
