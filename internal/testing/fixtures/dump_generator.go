package fixtures

import (
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
)

// DumpLine is one line of a trace dump, as written by the capture tooling
type DumpLine struct {
	Trace                 string `json:"trace"`
	ElapsedNs             int64  `json:"elapsed_ns"`
	RealToElapsedOffsetNs *int64 `json:"real_to_elapsed_offset_ns,omitempty"`
	Payload               any    `json:"payload,omitempty"`
}

// DumpGenerator writes trace dumps for tests
type DumpGenerator struct {
	baseDir string
}

func NewDumpGenerator(baseDir string) *DumpGenerator {
	return &DumpGenerator{baseDir: baseDir}
}

func (g *DumpGenerator) GetBaseDir() string {
	return g.baseDir
}

// Offset returns a pointer for DumpLine.RealToElapsedOffsetNs
func Offset(ns int64) *int64 {
	return &ns
}

// Lines builds one dump line per elapsed timestamp. Each payload records the
// entry's trace and index.
func Lines(traceType string, offset *int64, elapsedNs ...int64) []DumpLine {
	lines := make([]DumpLine, len(elapsedNs))
	for i, ns := range elapsedNs {
		lines[i] = DumpLine{
			Trace:                 traceType,
			ElapsedNs:             ns,
			RealToElapsedOffsetNs: offset,
			Payload:               map[string]any{"trace": traceType, "index": i},
		}
	}
	return lines
}

// WriteDump creates name under the base directory, replacing any previous
// content, and returns its path.
func (g *DumpGenerator) WriteDump(name string, lines []DumpLine) (string, error) {
	return g.write(name, lines, os.O_CREATE|os.O_TRUNC|os.O_WRONLY)
}

// AppendDump adds lines to name, creating it when missing
func (g *DumpGenerator) AppendDump(name string, lines []DumpLine) (string, error) {
	return g.write(name, lines, os.O_CREATE|os.O_APPEND|os.O_WRONLY)
}

func (g *DumpGenerator) write(name string, lines []DumpLine, flag int) (string, error) {
	path := filepath.Join(g.baseDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	file, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return "", err
	}
	defer file.Close()

	encoder := sonic.ConfigStd.NewEncoder(file)
	for _, line := range lines {
		if err := encoder.Encode(line); err != nil {
			return "", err
		}
	}
	return path, nil
}

// GenerateScenario writes SurfaceFlinger entries at 100 and 110 and
// WindowManager entries at 90, 101, 110 and 112. Without offsets the dumps
// load as elapsed timestamps.
func (g *DumpGenerator) GenerateScenario() ([]string, error) {
	sf, err := g.WriteDump("sf.jsonl", Lines("SURFACE_FLINGER", nil, 100, 110))
	if err != nil {
		return nil, err
	}
	wm, err := g.WriteDump("wm.jsonl", Lines("WINDOW_MANAGER", nil, 90, 101, 110, 112))
	if err != nil {
		return nil, err
	}
	return []string{sf, wm}, nil
}

// GenerateLargeDump writes count evenly spaced entries of one trace
func (g *DumpGenerator) GenerateLargeDump(name, traceType string, count int, stepNs int64) (string, error) {
	elapsed := make([]int64, count)
	for i := range elapsed {
		elapsed[i] = int64(i+1) * stepNs
	}
	return g.WriteDump(name, Lines(traceType, nil, elapsed...))
}

// CreateEmptyDump creates a dump without entries
func (g *DumpGenerator) CreateEmptyDump(name string) (string, error) {
	return g.WriteDump(name, nil)
}
