package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var fixedNow = time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

// testEnv is an isolated config and data directory for CLI runs.
type testEnv struct {
	t       *testing.T
	Config  string
	DataDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, key := range []string{"FARMBOOK_BACKEND", "FARMBOOK_DATA_DIR", "FARMBOOK_CONFIG_DIR", "FARMBOOK_REMOTE_BASE_URL"} {
		t.Setenv(key, "")
	}
	tempDir := t.TempDir()
	env := &testEnv{
		t:       t,
		Config:  filepath.Join(tempDir, "config"),
		DataDir: filepath.Join(tempDir, "data"),
	}
	env.writeConfig("backend: sqlite\n")
	return env
}

func (e *testEnv) writeConfig(content string) {
	e.t.Helper()
	if err := os.MkdirAll(e.Config, 0o755); err != nil {
		e.t.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(e.Config, "config.yaml"), []byte(content), 0o644); err != nil {
		e.t.Fatalf("write config: %v", err)
	}
}

type cmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes farmbook in-process against the environment.
func (e *testEnv) Run(args ...string) cmdResult {
	e.t.Helper()
	all := append([]string{"--config-dir", e.Config, "--data-dir", e.DataDir}, args...)
	var stdout, stderr bytes.Buffer
	root := newApp(func() time.Time { return fixedNow }).rootCmd()
	code := run(root, all, &stdout, &stderr)
	return cmdResult{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: code}
}

// MustRun executes farmbook and fails the test on a non-zero exit.
func (e *testEnv) MustRun(args ...string) cmdResult {
	e.t.Helper()
	res := e.Run(args...)
	if res.ExitCode != 0 {
		e.t.Fatalf("farmbook %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, res.ExitCode, res.Stdout, res.Stderr)
	}
	return res
}

func parseJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var out T
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		t.Fatalf("parse JSON %q: %v", s, err)
	}
	return out
}
