package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateFile 지정된 경로가 읽기 가능한 일반 파일인지 검증합니다.
func ValidateFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("파일 경로가 비어 있습니다")
	}

	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("파일이 존재하지 않습니다 (path=%q)", path)
		}
		return fmt.Errorf("파일 정보를 확인하는 중 오류가 발생했습니다 (path=%q): %w", path, err)
	}

	// 디렉터리, 소켓, 파이프, 디바이스 파일 등을 모두 제외한다.
	if !info.Mode().IsRegular() {
		return fmt.Errorf("해당 경로는 일반 파일이어야 합니다 (path=%q, mode=%s)", path, info.Mode())
	}

	// os.Stat 만으로는 ACL이나 컨테이너 환경의 권한을 대변하지 못하므로 실제로 열어본다.
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("파일을 읽을 수 있는 권한이 없습니다 (path=%q): %w", path, err)
	}
	_ = f.Close()

	return nil
}
