package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-trace-timeline/internal/util"
)

// DefaultExtension is the suffix of trace dump files
const DefaultExtension = ".jsonl"

// DumpScanner finds trace dump files under a directory
type DumpScanner struct {
	baseDir    string
	extensions []string
}

// NewDumpScanner matches DefaultExtension unless extensions are given.
// Matching is case-insensitive.
func NewDumpScanner(baseDir string, extensions ...string) *DumpScanner {
	if len(extensions) == 0 {
		extensions = []string{DefaultExtension}
	}
	lower := make([]string, len(extensions))
	for i, ext := range extensions {
		lower[i] = strings.ToLower(ext)
	}
	return &DumpScanner{baseDir: baseDir, extensions: lower}
}

func (s *DumpScanner) BaseDir() string {
	return s.baseDir
}

// Matches reports whether path looks like a dump file
func (s *DumpScanner) Matches(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	if strings.HasPrefix(name, ".") {
		return false
	}
	for _, ext := range s.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Scan walks baseDir and returns matching files sorted by path. Unreadable
// entries and hidden directories are skipped.
func (s *DumpScanner) Scan() ([]string, error) {
	start := time.Now()
	var files []string
	dirCount := 0
	totalCount := 0

	util.LogDebugf("Start scanning dump directory: %s", s.baseDir)

	err := filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			util.LogDebugf("Skip path (error): %s - %v", path, err)
			return nil
		}

		if info.IsDir() {
			if path != s.baseDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			dirCount++
			return nil
		}

		totalCount++
		if s.Matches(path) {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)
	util.LogDebugf("Dump scan completed: duration %v, scanned %d directories, %d files, found %d dumps",
		time.Since(start), dirCount, totalCount, len(files))

	return files, err
}
