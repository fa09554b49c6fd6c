package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFile(t *testing.T) {
	t.Parallel()

	t.Run("존재하는 일반 파일은 유효하다", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "credentials.json")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

		assert.NoError(t, ValidateFile(path))
	})

	t.Run("빈 경로는 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		assert.Error(t, ValidateFile(""))
		assert.Error(t, ValidateFile("   "))
	})

	t.Run("존재하지 않는 파일은 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		err := ValidateFile(filepath.Join(t.TempDir(), "missing.json"))
		assert.ErrorContains(t, err, "존재하지 않습니다")
	})

	t.Run("디렉터리는 유효한 파일이 아니다", func(t *testing.T) {
		t.Parallel()

		err := ValidateFile(t.TempDir())
		assert.ErrorContains(t, err, "일반 파일")
	})
}
