package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"vx/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Journal.Path = filepath.Join(base, "state", "history.db")
	cfgVal.Logging.Dir = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithJournal enables the run journal on the test config.
func WithJournal() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = true
	}
}

// WithWorkers sets the extraction worker count.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Extraction.Workers = n
	}
}

// StubVersion is the version string reported by stubbed MKVToolNix binaries.
const StubVersion = "v81.0"

// WithStubbedBinaries writes stub mkvmerge and mkvextract executables and
// points the config at them. The mkvmerge stub answers "-V" with
// StubVersion and "-i -F json <file>" with the contents of "<file>.json".
// The mkvextract stub creates every "<id>:<path>" target and appends its
// arguments to extract.log next to the binaries.
func WithStubbedBinaries() ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		mkvmerge := fmt.Sprintf(`#!/bin/sh
if [ "$1" = "-V" ]; then
  echo "mkvmerge %s ('Stub') 64-bit"
  exit 0
fi
if [ -f "$4.json" ]; then
  cat "$4.json"
  exit 0
fi
echo "Error: The file '$4' could not be opened for reading." >&2
exit 2
`, StubVersion)
		mkvextract := fmt.Sprintf(`#!/bin/sh
if [ "$1" = "-V" ]; then
  echo "mkvextract %s ('Stub') 64-bit"
  exit 0
fi
echo "$@" >> %q
shift 2
for spec in "$@"; do
  target="${spec#*:}"
  mkdir -p "$(dirname "$target")"
  : > "$target"
done
exit 0
`, StubVersion, filepath.Join(binDir, "extract.log"))

		scripts := map[string]string{"mkvmerge": mkvmerge, "mkvextract": mkvextract}
		for name, script := range scripts {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		b.cfg.Tools.Mkvmerge = filepath.Join(binDir, "mkvmerge")
		b.cfg.Tools.Mkvextract = filepath.Join(binDir, "mkvextract")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}

// ExtractLog returns the path the mkvextract stub appends its arguments to.
func ExtractLog(cfg *config.Config) string {
	return filepath.Join(BaseDir(cfg), "bin", "extract.log")
}
