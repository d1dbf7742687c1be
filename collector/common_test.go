package collector

import (
	"testing"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/testutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	return testutil.WriteFile(t, dir, name, content)
}

func intp(n int) *int { return &n }
