// Package version 은 빌드 시점에 주입되는 버전 정보를 관리한다.
//
// 버전 정보는 ldflags 를 통해 빌드 시점에 주입되며, 주입되지 않은 항목은
// debug.ReadBuildInfo() 를 통해 보완된다.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync/atomic"
)

// 빌드 시점에 ldflags 로 주입되는 변수들
//
//	-X github.com/darkkaiser/retail-gateway/internal/pkg/version.appVersion=...
//	-X github.com/darkkaiser/retail-gateway/internal/pkg/version.gitCommitHash=...
//	-X github.com/darkkaiser/retail-gateway/internal/pkg/version.buildDate=...
var (
	appVersion    = "dev"
	gitCommitHash = "unknown"
	buildDate     = "unknown"
)

// Info 는 빌드된 바이너리의 버전 정보를 담는다.
type Info struct {
	Version    string `json:"version"`
	Commit     string `json:"commit"`
	BuildDate  string `json:"build_date"`
	GoVersion  string `json:"go_version"`
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	DirtyBuild bool   `json:"dirty_build"`
}

// globalBuildInfo 는 프로그램 시작 시 한번 초기화되는 버전 정보이다.
var globalBuildInfo atomic.Value

func init() {
	info := Info{
		Version:   appVersion,
		Commit:    gitCommitHash,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	enrichBuildInfo(&info)

	globalBuildInfo.Store(info)
}

// enrichBuildInfo 는 ldflags 로 주입되지 않은 항목을 VCS 메타데이터로 보완한다.
func enrichBuildInfo(info *Info) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.Commit == "unknown" {
				info.Commit = setting.Value
			}
		case "vcs.time":
			if info.BuildDate == "unknown" {
				info.BuildDate = setting.Value
			}
		case "vcs.modified":
			info.DirtyBuild = setting.Value == "true"
		}
	}
}

// Get 은 현재 바이너리의 버전 정보를 반환한다.
func Get() Info {
	info, ok := globalBuildInfo.Load().(Info)
	if !ok {
		return Info{Version: appVersion}
	}
	return info
}

// Version 은 버전 문자열만 반환한다.
func Version() string {
	return Get().Version
}

// ToMap 은 버전 정보를 map 형태로 변환한다.
func (i Info) ToMap() map[string]any {
	return map[string]any{
		"version":     i.Version,
		"commit":      i.Commit,
		"build_date":  i.BuildDate,
		"go_version":  i.GoVersion,
		"os":          i.OS,
		"arch":        i.Arch,
		"dirty_build": i.DirtyBuild,
	}
}

// String 은 사람이 읽기 좋은 한줄 요약을 반환한다.
func (i Info) String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, %s %s/%s)",
		i.Version, i.Commit, i.BuildDate, i.GoVersion, i.OS, i.Arch)
}
