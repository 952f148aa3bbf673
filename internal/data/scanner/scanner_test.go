package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))
	}
}

func TestNewDumpScanner(t *testing.T) {
	s := NewDumpScanner("/tmp/dumps")
	assert.Equal(t, "/tmp/dumps", s.BaseDir())
	assert.Equal(t, []string{DefaultExtension}, s.extensions)

	s = NewDumpScanner("/tmp/dumps", ".JSON")
	assert.Equal(t, []string{".json"}, s.extensions)
}

func TestDumpScannerEmptyAndMissingDirectory(t *testing.T) {
	files, err := NewDumpScanner(t.TempDir()).Scan()
	require.NoError(t, err)
	assert.Empty(t, files)

	files, err = NewDumpScanner("/path/that/does/not/exist").Scan()
	require.NoError(t, err, "missing directories are skipped")
	assert.Empty(t, files)
}

func TestDumpScannerFindsDumpsSorted(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"wm.jsonl",
		"sf.JSONL",
		"notes.txt",
		"capture.json",
		"device/transactions.jsonl",
		".cache/stale.jsonl",
		".hidden.jsonl",
	)

	files, err := NewDumpScanner(root).Scan()
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "device/transactions.jsonl"),
		filepath.Join(root, "sf.JSONL"),
		filepath.Join(root, "wm.jsonl"),
	}, files)
}

func TestDumpScannerMatches(t *testing.T) {
	s := NewDumpScanner("/", ".jsonl", ".json")

	tests := []struct {
		path string
		want bool
	}{
		{"/a/sf.jsonl", true},
		{"/a/sf.json", true},
		{"/a/SF.JSON", true},
		{"/a/.sf.jsonl", false},
		{"/a/sf.jsonl.bak", false},
		{"/a/readme.md", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Matches(tt.path), tt.path)
	}
}
