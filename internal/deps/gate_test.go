package deps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"vx/internal/services"
)

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

func writeHungStub(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, executableName(name))
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexec sleep 5\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func writeVersionStub(t *testing.T, dir, name, output string) string {
	t.Helper()
	path := filepath.Join(dir, executableName(name))
	script := "#!/bin/sh\ncat <<'VERSION'\n" + output + "\nVERSION\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestGateCheckVersions(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		wantErr error
	}{
		{"too old", "mkvmerge v9.1.9 ('Ice') 64bit", services.ErrToolTooOld},
		{"exact", "mkvmerge v9.2.0 ('Photograph') 64bit", nil},
		{"newer major", "mkvmerge v10.0.0 ('To Drown In You') 64bit", nil},
		{"unparsable", "mkvmerge development build", services.ErrToolTooOld},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := writeVersionStub(t, t.TempDir(), "mkvmerge", tt.output)
			gate := NewGate(nil)
			status, err := gate.Check(context.Background(), Requirement{
				Name:       "mkvmerge",
				Command:    stub,
				MinVersion: MinimumMKVToolNix,
			})
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !status.Available {
					t.Fatalf("expected available status, got %#v", status)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if status.Available {
				t.Fatal("expected unavailable status")
			}
			if !strings.Contains(err.Error(), "mkvmerge") || !strings.Contains(err.Error(), "v9.2.0") {
				t.Fatalf("expected tool name and required version in %q", err.Error())
			}
		})
	}
}

func TestGateCheckMissingBinary(t *testing.T) {
	gate := NewGate(nil)
	_, err := gate.Check(context.Background(), Requirement{
		Name:       "mkvextract",
		Command:    "clearly-not-present-mkvextract",
		MinVersion: MinimumMKVToolNix,
	})
	if !errors.Is(err, services.ErrToolNotFound) {
		t.Fatalf("expected tool not found, got %v", err)
	}
	if !services.IsPrecondition(err) {
		t.Fatal("expected precondition failure")
	}
	if !strings.Contains(err.Error(), "v9.2.0") {
		t.Fatalf("expected required version in %q", err.Error())
	}
}

func TestGateCheckAllReportsEveryFailure(t *testing.T) {
	reports := map[string]string{
		"mkvmerge":   "mkvmerge v9.0.1",
		"mkvextract": "mkvextract v9.3.1",
	}
	calls := 0
	gate := NewGate(nil,
		WithLookPath(func(name string) (string, error) {
			if name == "missing" {
				return "", errors.New("not found")
			}
			return "/usr/bin/" + name, nil
		}),
		WithVersionReporter(func(_ context.Context, command string) (string, error) {
			calls++
			return reports[command], nil
		}),
	)

	statuses, err := gate.CheckAll(context.Background(), []Requirement{
		{Name: "mkvmerge", Command: "mkvmerge", MinVersion: MinimumMKVToolNix},
		{Name: "mkvextract", Command: "mkvextract", MinVersion: MinimumMKVToolNix},
		{Name: "other", Command: "missing", MinVersion: MinimumMKVToolNix},
	})
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if calls != 2 {
		t.Fatalf("expected version report for located binaries only, got %d calls", calls)
	}
	if !errors.Is(err, services.ErrToolTooOld) || !errors.Is(err, services.ErrToolNotFound) {
		t.Fatalf("expected joined too-old and not-found errors, got %v", err)
	}
	if !statuses[1].Available || statuses[1].Found.String() != "v9.3.1" {
		t.Fatalf("unexpected mkvextract status %#v", statuses[1])
	}
	if statuses[0].Found.String() != "v9.0.1" {
		t.Fatalf("expected found version recorded, got %s", statuses[0].Found)
	}
}

func TestGateCheckToleratesNonZeroExitWithVersion(t *testing.T) {
	gate := NewGate(nil,
		WithLookPath(func(name string) (string, error) { return name, nil }),
		WithVersionReporter(func(context.Context, string) (string, error) {
			return "mkvmerge v12.0.0", errors.New("exit status 1")
		}),
	)
	if _, err := gate.Check(context.Background(), Requirement{Name: "mkvmerge", Command: "mkvmerge", MinVersion: MinimumMKVToolNix}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGateCheckTimesOutHungVersionReport(t *testing.T) {
	stub := writeHungStub(t, t.TempDir(), "mkvmerge")
	gate := NewGate(nil, WithTimeout(200*time.Millisecond))

	start := time.Now()
	status, err := gate.Check(context.Background(), Requirement{Name: "mkvmerge", Command: stub, MinVersion: MinimumMKVToolNix})
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("version report ignored the timeout: returned after %s", elapsed)
	}
	if !errors.Is(err, services.ErrToolTimeout) {
		t.Fatalf("expected ErrToolTimeout, got %v", err)
	}
	if errors.Is(err, services.ErrToolTooOld) || status.Available {
		t.Fatalf("a hung tool must not read as too old: %#v", status)
	}
}

func TestGateCheckAllStopsAtCallerDeadline(t *testing.T) {
	dir := t.TempDir()
	mkvmerge := writeHungStub(t, dir, "mkvmerge")
	mkvextract := writeHungStub(t, dir, "mkvextract")
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	statuses, err := NewGate(nil).CheckAll(ctx, []Requirement{
		{Name: "mkvmerge", Command: mkvmerge, MinVersion: MinimumMKVToolNix},
		{Name: "mkvextract", Command: mkvextract, MinVersion: MinimumMKVToolNix},
	})
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("CheckAll ignored the deadline: returned after %s", elapsed)
	}
	if !errors.Is(err, services.ErrToolTimeout) {
		t.Fatalf("expected ErrToolTimeout, got %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("expected checks to stop after the deadline, got %d statuses", len(statuses))
	}
}
