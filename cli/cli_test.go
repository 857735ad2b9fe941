package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	icl "todokeep/internal/cli"
)

// isolateEnv detaches config resolution from the real user environment so
// tests only see what they set themselves.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TODOKEEP_CONFIG", "")
	t.Setenv("TODOKEEP_FILE", "")
	t.Setenv("TODOKEEP_STORE", "")
	t.Setenv("TODOKEEP_LOG_LEVEL", "")
}

func runCLI(t *testing.T, stdin string, args ...string) (icl.Result, string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	res, err := icl.Run(args, strings.NewReader(stdin), &stdout, &stderr)
	return res, stdout.String(), stderr.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestAddThenListSortedByDue(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "todos.json")

	res, stdout, _, err := runCLI(t, "", "-file", path, "add", "Buy milk", "2 liters", "--due", "2025-06-10")
	if err != nil || res.ExitCode != icl.ExitSuccess {
		t.Fatalf("add 1: exit=%d err=%v", res.ExitCode, err)
	}
	if stdout != "Added to-do #1: Buy milk\n" {
		t.Fatalf("add 1 stdout: %q", stdout)
	}

	if res, _, _, err = runCLI(t, "", "-file", path, "add", "Pay rent", "Transfer", "--due", "2025-06-01"); err != nil || res.ExitCode != icl.ExitSuccess {
		t.Fatalf("add 2: exit=%d err=%v", res.ExitCode, err)
	}
	if res, _, _, err = runCLI(t, "", "-file", path, "add", "Someday", "No deadline"); err != nil || res.ExitCode != icl.ExitSuccess {
		t.Fatalf("add 3: exit=%d err=%v", res.ExitCode, err)
	}

	raw := readFile(t, path)
	for _, want := range []string{`"id": 1`, `"title": "Buy milk"`, `"due_date": "2025-06-01"`, `"due_date": null`, `"completed": false`} {
		if !strings.Contains(raw, want) {
			t.Fatalf("stored file missing %s:\n%s", want, raw)
		}
	}

	res, stdout, _, err = runCLI(t, "", "-file", path, "list", "--sort")
	if err != nil || res.ExitCode != icl.ExitSuccess {
		t.Fatalf("list: exit=%d err=%v", res.ExitCode, err)
	}
	rent := strings.Index(stdout, "Pay rent")
	milk := strings.Index(stdout, "Buy milk")
	someday := strings.Index(stdout, "Someday")
	if rent < 0 || milk < 0 || someday < 0 {
		t.Fatalf("list missing items:\n%s", stdout)
	}
	if !(rent < milk && milk < someday) {
		t.Fatalf("expected due-date order rent < milk < someday:\n%s", stdout)
	}
}

func TestLifecycle(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "todos.json")

	steps := []struct {
		args   []string
		stdout string
	}{
		{[]string{"-file", path, "add", "Write tests", ""}, "Added to-do #1: Write tests\n"},
		{[]string{"-file", path, "done", "1"}, "Marked #1 complete.\n"},
		{[]string{"-file", path, "list", "--open"}, ""},
		{[]string{"-file", path, "reopen", "1"}, "Reopened #1.\n"},
		{[]string{"-file", path, "update", "1", "--desc", "tonight"}, "Updated #1.\n"},
		{[]string{"-file", path, "delete", "1"}, "Deleted #1.\n"},
		{[]string{"-file", path, "list"}, "No to-dos yet.\n"},
	}
	for _, step := range steps {
		res, stdout, stderr, err := runCLI(t, "", step.args...)
		if err != nil || res.ExitCode != icl.ExitSuccess {
			t.Fatalf("%q: exit=%d err=%v stderr=%q", step.args, res.ExitCode, err, stderr)
		}
		if stdout != step.stdout {
			t.Fatalf("%q: stdout %q, want %q", step.args, stdout, step.stdout)
		}
	}
}

func TestMissingIDFailsWithExitCode1(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "todos.json")

	res, _, stderr, err := runCLI(t, "", "-file", path, "done", "9")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if res.ExitCode != icl.ExitOperationFailure {
		t.Fatalf("expected exit %d got %d", icl.ExitOperationFailure, res.ExitCode)
	}
	if !strings.Contains(stderr, "no to-do with id 9") {
		t.Fatalf("unexpected stderr: %q", stderr)
	}
}

func TestBadDueDateFailsWithExitCode1(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "todos.json")

	res, _, stderr, err := runCLI(t, "", "-file", path, "add", "Title", "Desc", "--due", "junk")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if res.ExitCode != icl.ExitOperationFailure {
		t.Fatalf("expected exit %d got %d", icl.ExitOperationFailure, res.ExitCode)
	}
	if !strings.Contains(stderr, "invalid due date") {
		t.Fatalf("unexpected stderr: %q", stderr)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("a rejected add must not create the file, stat err=%v", err)
	}
}

func TestInvalidInvocation_DeterministicAndSilent(t *testing.T) {
	isolateEnv(t)

	res1, stdout1, stderr1, err1 := runCLI(t, "", "done", "seven")
	res2, _, _, err2 := runCLI(t, "", "done", "seven")

	if res1.ExitCode != icl.ExitInvalidInvocation || res2.ExitCode != icl.ExitInvalidInvocation {
		t.Fatalf("expected exit 2, got %d and %d", res1.ExitCode, res2.ExitCode)
	}
	if err1 == nil || err2 == nil {
		t.Fatalf("expected errors")
	}
	if err1.Error() != err2.Error() {
		t.Fatalf("expected deterministic error message")
	}
	// Run leaves reporting a parse error to the caller.
	if stdout1 != "" || stderr1 != "" {
		t.Fatalf("expected silent streams, got stdout=%q stderr=%q", stdout1, stderr1)
	}
}

func TestCorruptFileWarnsThenNextSaveRecovers(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "todos.json")
	if err := os.WriteFile(path, []byte("{definitely not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	res, stdout, stderr, err := runCLI(t, "", "-file", path, "list")
	if err != nil || res.ExitCode != icl.ExitSuccess {
		t.Fatalf("list: exit=%d err=%v", res.ExitCode, err)
	}
	if stdout != "No to-dos yet.\n" {
		t.Fatalf("list stdout: %q", stdout)
	}
	if !strings.Contains(stderr, "could not read backing store") {
		t.Fatalf("expected warning on stderr, got %q", stderr)
	}
	if readFile(t, path) != "{definitely not json" {
		t.Fatalf("reading must not touch the file")
	}

	if res, _, _, err = runCLI(t, "", "-file", path, "add", "Fresh start", ""); err != nil || res.ExitCode != icl.ExitSuccess {
		t.Fatalf("add: exit=%d err=%v", res.ExitCode, err)
	}
	raw := readFile(t, path)
	if !strings.Contains(raw, `"title": "Fresh start"`) || strings.Contains(raw, "definitely") {
		t.Fatalf("expected the save to replace the corrupt file:\n%s", raw)
	}
}

func TestConfigFileSelectsStoreAndPath(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "todos.db")
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("store: sqlite\nfile: "+dbPath+"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TODOKEEP_CONFIG", cfgPath)

	res, _, stderr, err := runCLI(t, "", "add", "From config", "")
	if err != nil || res.ExitCode != icl.ExitSuccess {
		t.Fatalf("add: exit=%d err=%v stderr=%q", res.ExitCode, err, stderr)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected sqlite database at the configured path: %v", err)
	}

	res, stdout, _, err := runCLI(t, "", "list")
	if err != nil || res.ExitCode != icl.ExitSuccess {
		t.Fatalf("list: exit=%d err=%v", res.ExitCode, err)
	}
	if !strings.Contains(stdout, "From config") {
		t.Fatalf("expected the item back from sqlite:\n%s", stdout)
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	fileA := filepath.Join(dir, "a.json")
	fileB := filepath.Join(dir, "b.json")
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("file: "+fileA+"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TODOKEEP_CONFIG", cfgPath)
	t.Setenv("TODOKEEP_FILE", fileB)

	res, _, _, err := runCLI(t, "", "add", "Routed", "")
	if err != nil || res.ExitCode != icl.ExitSuccess {
		t.Fatalf("add: exit=%d err=%v", res.ExitCode, err)
	}

	if _, err := os.Stat(fileA); !os.IsNotExist(err) {
		t.Fatalf("config-path file must not be written, stat err=%v", err)
	}
	if !strings.Contains(readFile(t, fileB), `"title": "Routed"`) {
		t.Fatalf("expected item in the env-selected file")
	}
}

func TestMissingExplicitConfigFailsWithExitCode3(t *testing.T) {
	isolateEnv(t)
	t.Setenv("TODOKEEP_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	res, _, stderr, err := runCLI(t, "", "list")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if res.ExitCode != icl.ExitConfigError {
		t.Fatalf("expected exit %d got %d", icl.ExitConfigError, res.ExitCode)
	}
	if !strings.Contains(stderr, "Error:") {
		t.Fatalf("expected config error on stderr, got %q", stderr)
	}
}

func TestMenuSessionPersistsThroughRealStore(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "todos.json")

	script := "1\nPlan trip\nBook hotel\n2025-07-04\n9\n"
	res, stdout, _, err := runCLI(t, script, "-file", path)
	if err != nil || res.ExitCode != icl.ExitSuccess {
		t.Fatalf("menu: exit=%d err=%v", res.ExitCode, err)
	}
	if !strings.Contains(stdout, "Added #1.") || !strings.Contains(stdout, "Bye!") {
		t.Fatalf("unexpected session transcript:\n%s", stdout)
	}

	raw := readFile(t, path)
	for _, want := range []string{`"title": "Plan trip"`, `"due_date": "2025-07-04"`} {
		if !strings.Contains(raw, want) {
			t.Fatalf("stored file missing %s:\n%s", want, raw)
		}
	}
}
