package pkg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBytesToString(t *testing.T) {
	assert.Equal(t, "a1b2c3d", BytesToString([]byte("a1b2c3d")))
	assert.Equal(t, "", BytesToString(nil))
}

func TestPathExists(t *testing.T) {
	staticDir := t.TempDir()
	indexFile := filepath.Join(staticDir, "index.html")
	require.NoError(t, os.WriteFile(indexFile, []byte("<html></html>"), 0o600))

	cases := []struct {
		name   string
		path   string
		isDir  bool
		exists bool
	}{
		{name: "missing dir", path: "/invalid/path/static", isDir: true},
		{name: "missing file", path: "/invalid/path/index.html"},
		{name: "dir", path: staticDir, isDir: true, exists: true},
		{name: "dir checked as file", path: staticDir},
		{name: "file", path: indexFile, exists: true},
		{name: "file checked as dir", path: indexFile, isDir: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			exists, err := PathExists(tc.path, tc.isDir)
			require.NoError(t, err)
			assert.Equal(t, tc.exists, exists)
		})
	}
}
