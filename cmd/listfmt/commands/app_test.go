package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"listfmt/internal/history"
	"listfmt/internal/storage"
	"listfmt/internal/testutil"
)

type testApp struct {
	t          *testing.T
	configPath string
	dataDir    string
	clipboard  *testutil.FakeClipboard
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	dir := t.TempDir()
	return &testApp{
		t:          t,
		configPath: filepath.Join(dir, "config.yaml"),
		dataDir:    filepath.Join(dir, "data"),
		clipboard:  testutil.NewFakeClipboard(),
	}
}

// run executes listfmt with the file backend so history survives between
// runs of the same testApp.
func (a *testApp) run(stdin string, args ...string) (string, string, error) {
	a.t.Helper()

	var stdout, stderr bytes.Buffer
	env := &Env{
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
		NewClipboard: func() Clipboard {
			return a.clipboard
		},
	}

	argv := append([]string{
		"listfmt",
		"--config", a.configPath,
		"--data-dir", a.dataDir,
		"--backend", "file",
		"--log-level", "error",
	}, args...)

	err := NewApp(env).RunContext(context.Background(), argv)
	return stdout.String(), stderr.String(), err
}

func (a *testApp) mustRun(stdin string, args ...string) (string, string) {
	a.t.Helper()
	stdout, stderr, err := a.run(stdin, args...)
	if err != nil {
		a.t.Fatalf("listfmt %v: %v\nstderr: %s", args, err, stderr)
	}
	return stdout, stderr
}

func (a *testApp) history() []history.Conversion {
	a.t.Helper()
	stdout, _ := a.mustRun("", "history", "list", "--json")

	var out struct {
		Entries []history.Conversion `json:"entries"`
		Count   int                  `json:"count"`
	}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		a.t.Fatalf("decode history: %v\n%s", err, stdout)
	}
	if out.Count != len(out.Entries) {
		a.t.Fatalf("count %d does not match %d entries", out.Count, len(out.Entries))
	}
	return out.Entries
}

func TestFormatArgs(t *testing.T) {
	app := newTestApp(t)

	stdout, stderr := app.mustRun("", "format", "a,", "b,", "c")

	testutil.AssertEqual(t, stdout, "'a','b','c'\n", "stdout")
	testutil.AssertContains(t, stderr, "Output copied to clipboard!", "notification")

	texts := app.clipboard.Texts()
	if len(texts) != 1 || texts[0] != "'a','b','c'" {
		t.Fatalf("clipboard writes = %q", texts)
	}

	entries := app.history()
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	testutil.AssertEqual(t, entries[0].Input, "a, b, c", "recorded input")
	testutil.AssertEqual(t, entries[0].Output, "'a','b','c'", "recorded output")
}

func TestFormatStdin(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name:  "default options",
			stdin: "apple, banana , cherry\n",
			want:  "'apple','banana','cherry'",
		},
		{
			name:  "newline mode",
			stdin: "x\n  y  \n",
			args:  []string{"-n", "-s", "[", "-e", "]"},
			want:  "[x],[y]",
		},
		{
			name:  "custom delimiter",
			stdin: "a|b||c",
			args:  []string{"-d", "|", "-s", "\"", "-e", "\""},
			want:  `"a","b","","c"`,
		},
		{
			name:  "trailing delimiter",
			stdin: "x,",
			args:  []string{"-s", "[", "-e", "]"},
			want:  "[x],[]",
		},
		{
			name:  "empty input",
			stdin: "",
			want:  "''",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			args := append([]string{"format", "--no-copy"}, tt.args...)
			stdout, _ := app.mustRun(tt.stdin, args...)
			testutil.AssertEqual(t, stdout, tt.want+"\n", "stdout")
		})
	}
}

func TestFormatUsesConfigDefaults(t *testing.T) {
	app := newTestApp(t)

	config := "defaults:\n  delimiter: \";\"\n  start_char: \"<\"\n  end_char: \">\"\n"
	if err := os.WriteFile(app.configPath, []byte(config), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	stdout, _ := app.mustRun("", "format", "--no-copy", "a;b")
	testutil.AssertEqual(t, stdout, "<a>,<b>\n", "config defaults")

	stdout, _ = app.mustRun("", "format", "--no-copy", "-e", "]", "a;b")
	testutil.AssertEqual(t, stdout, "<a],<b]\n", "flag overrides config")
}

func TestFormatNoCopy(t *testing.T) {
	app := newTestApp(t)

	_, stderr := app.mustRun("", "format", "--no-copy", "a,b")

	if len(app.clipboard.Texts()) != 0 {
		t.Fatalf("expected no clipboard writes, got %q", app.clipboard.Texts())
	}
	if stderr != "" {
		t.Errorf("expected no notification, got %q", stderr)
	}
	if len(app.history()) != 1 {
		t.Error("conversion should still be recorded")
	}
}

func TestFormatClipboardFailure(t *testing.T) {
	app := newTestApp(t)
	app.clipboard.Err = errors.New("no display")

	stdout, stderr, err := app.run("", "format", "a,b")
	if err != nil {
		t.Fatalf("clipboard failure should not fail the command: %v", err)
	}

	testutil.AssertEqual(t, stdout, "'a','b'\n", "stdout")
	testutil.AssertContains(t, stderr, "Failed to copy clipboard", "failure notification")
	if len(app.history()) != 1 {
		t.Error("conversion should be recorded even when the copy fails")
	}
}

func TestFormatPaste(t *testing.T) {
	app := newTestApp(t)
	app.clipboard.SetText("one\ntwo")

	stdout, _ := app.mustRun("", "format", "--paste", "-n")
	testutil.AssertEqual(t, stdout, "'one','two'\n", "pasted input")

	_, _, err := app.run("", "format", "--paste", "extra")
	testutil.AssertError(t, err, "paste with args")
}

func TestHistoryBounded(t *testing.T) {
	app := newTestApp(t)

	for i := 1; i <= history.MaxHistory+2; i++ {
		app.mustRun("", "format", "--no-copy", fmt.Sprintf("item%d", i))
	}

	entries := app.history()
	if len(entries) != history.MaxHistory {
		t.Fatalf("expected %d entries, got %d", history.MaxHistory, len(entries))
	}
	testutil.AssertEqual(t, entries[0].Output, "'item12'", "newest entry")
	testutil.AssertEqual(t, entries[len(entries)-1].Output, "'item3'", "oldest entry")
}

func TestHistoryListTable(t *testing.T) {
	app := newTestApp(t)

	stdout, _ := app.mustRun("", "history", "list")
	testutil.AssertContains(t, stdout, "No conversions yet", "empty history")

	app.mustRun("", "format", "--no-copy", "a,b")
	app.mustRun("", "format", "--no-copy", "c,d")

	stdout, _ = app.mustRun("", "history", "list", "-n", "1")
	testutil.AssertContains(t, stdout, "[1]", "first row")
	testutil.AssertContains(t, stdout, "Output: 'c','d'", "newest output")
	if strings.Contains(stdout, "[2]") {
		t.Errorf("--number 1 should show one entry:\n%s", stdout)
	}
}

func TestHistoryListUTC(t *testing.T) {
	app := newTestApp(t)
	app.mustRun("", "format", "--no-copy", "a")

	stdout, _ := app.mustRun("", "history", "list", "--utc")

	entries := app.history()
	want := fmt.Sprintf("[1] %s", entries[0].Time().UTC().Format("2006-01-02 15:04:05"))
	testutil.AssertContains(t, stdout, want, "utc timestamp")
}

func TestCorruptFileSnapshot(t *testing.T) {
	app := newTestApp(t)
	if err := os.MkdirAll(app.dataDir, 0755); err != nil {
		t.Fatal(err)
	}
	statePath := filepath.Join(app.dataDir, storage.StateFile)
	if err := os.WriteFile(statePath, []byte("{truncated"), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, _ := app.mustRun("", "status")
	testutil.AssertContains(t, stdout, "History: 0 of 10 entries", "empty history")
	testutil.AssertContains(t, stdout, "Snapshot: unreadable", "corrupt snapshot")

	stdout, _ = app.mustRun("", "format", "--no-copy", "a,b")
	testutil.AssertEqual(t, stdout, "'a','b'\n", "stdout")

	entries := app.history()
	if len(entries) != 1 || entries[0].Output != "'a','b'" {
		t.Fatalf("history after rewrite = %+v", entries)
	}
}

func TestHistoryCopy(t *testing.T) {
	app := newTestApp(t)
	app.mustRun("", "format", "--no-copy", "first")
	app.mustRun("", "format", "--no-copy", "second")

	stdout, stderr := app.mustRun("", "history", "copy", "2")

	testutil.AssertEqual(t, stdout, "'first'\n", "stdout")
	testutil.AssertContains(t, stderr, "Copied to clipboard!", "notification")
	texts := app.clipboard.Texts()
	if len(texts) != 1 || texts[0] != "'first'" {
		t.Fatalf("clipboard writes = %q", texts)
	}
	if len(app.history()) != 2 {
		t.Error("copying an entry must not add history")
	}
}

func TestHistoryCopyErrors(t *testing.T) {
	app := newTestApp(t)
	app.mustRun("", "format", "--no-copy", "only")

	tests := []struct {
		name string
		args []string
	}{
		{"missing index", []string{"history", "copy"}},
		{"zero index", []string{"history", "copy", "0"}},
		{"not a number", []string{"history", "copy", "abc"}},
		{"out of range", []string{"history", "copy", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := app.run("", tt.args...)
			testutil.AssertError(t, err, tt.name)
		})
	}

	_, _, err := app.run("", "history", "copy", "5")
	if !errors.Is(err, history.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestHistoryClear(t *testing.T) {
	app := newTestApp(t)
	app.mustRun("", "format", "--no-copy", "a")

	_, _, err := app.run("", "history", "clear")
	testutil.AssertError(t, err, "clear without --yes")
	if len(app.history()) != 1 {
		t.Fatal("history should be untouched")
	}

	stdout, _ := app.mustRun("", "history", "clear", "--yes")
	testutil.AssertContains(t, stdout, "Cleared 1", "clear output")
	if len(app.history()) != 0 {
		t.Error("history should be empty after clear")
	}
}

func TestWatch(t *testing.T) {
	app := newTestApp(t)

	stdout, stderr := app.mustRun("a, b\n\n c \n", "watch")

	testutil.AssertEqual(t, stdout, "'a','b'\n'c'\n", "stdout")
	testutil.AssertEqual(t, strings.Count(stderr, "Output copied to clipboard!"), 2, "notifications")

	entries := app.history()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	testutil.AssertEqual(t, entries[0].Output, "'c'", "newest entry")
}

func TestWatchNewlineBlocks(t *testing.T) {
	app := newTestApp(t)

	stdout, _ := app.mustRun("x\ny\n\n\nz\n", "watch", "--no-copy", "-n", "-s", "[", "-e", "]")

	testutil.AssertEqual(t, stdout, "[x],[y]\n[z]\n", "stdout")

	entries := app.history()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	testutil.AssertEqual(t, entries[1].Input, "x\ny", "block input")
}

func TestEphemeral(t *testing.T) {
	app := newTestApp(t)

	app.mustRun("", "--ephemeral", "format", "--no-copy", "a")
	if len(app.history()) != 0 {
		t.Error("ephemeral run should not persist history")
	}
}

func TestStatus(t *testing.T) {
	app := newTestApp(t)

	stdout, _ := app.mustRun("", "status")
	testutil.AssertContains(t, stdout, "Backend:        file", "backend")
	if strings.Contains(stdout, "Schema version") {
		t.Error("file backend has no schema version")
	}
	testutil.AssertContains(t, stdout, "History: 0 of 10 entries", "empty history")
	testutil.AssertContains(t, stdout, "Snapshot: none", "no snapshot")

	app.mustRun("", "format", "--no-copy", "a")

	stdout, _ = app.mustRun("", "status")
	testutil.AssertContains(t, stdout, "History: 1 of 10 entries", "one entry")
	testutil.AssertContains(t, stdout, "Latest:  'a'", "latest output")
	testutil.AssertContains(t, stdout, "by session", "snapshot writer")
}

func TestStatusSQLite(t *testing.T) {
	app := newTestApp(t)

	stdout, _ := app.mustRun("", "--backend", "sqlite", "status")
	testutil.AssertContains(t, stdout, "Backend:        sqlite", "backend")
	testutil.AssertContains(t, stdout, "Schema version: 1", "schema version")
}

func TestInit(t *testing.T) {
	app := newTestApp(t)

	stdout, _ := app.mustRun("", "init")
	testutil.AssertContains(t, stdout, "Created config file", "init output")

	if _, err := os.Stat(app.configPath); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	_, _, err := app.run("", "init")
	testutil.AssertError(t, err, "second init")
}

func TestConfigCommands(t *testing.T) {
	app := newTestApp(t)

	stdout, _ := app.mustRun("", "config", "path")
	testutil.AssertEqual(t, stdout, app.configPath+"\n", "config path")

	stdout, _ = app.mustRun("", "config", "show")
	testutil.AssertContains(t, stdout, "not found, showing defaults", "missing file note")
	testutil.AssertContains(t, stdout, "backend: file", "flag override shown")
	testutil.AssertContains(t, stdout, "key: conversionHistory", "default key")

	app.mustRun("", "config", "init")
	stdout, _ = app.mustRun("", "config", "show")
	if strings.Contains(stdout, "not found") {
		t.Errorf("config file should exist now:\n%s", stdout)
	}
}

func TestInvalidConfig(t *testing.T) {
	app := newTestApp(t)
	if err := os.WriteFile(app.configPath, []byte("storage: [broken"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, err := app.run("", "format", "--no-copy", "a")
	testutil.AssertError(t, err, "invalid config")
	testutil.AssertContains(t, err.Error(), "invalid configuration", "error message")
}

func TestVersion(t *testing.T) {
	app := newTestApp(t)

	stdout, _ := app.mustRun("", "version", "--short")
	testutil.AssertEqual(t, stdout, Version+"\n", "short version")
}

func TestTrimFinalNewline(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a,b\n", "a,b"},
		{"a,b\r\n", "a,b"},
		{"a\n\n", "a\n"},
		{"a\r", "a\r"},
		{"a\r\r\n", "a\r"},
		{"a", "a"},
		{"", ""},
	}
	for _, tt := range tests {
		testutil.AssertEqual(t, trimFinalNewline(tt.in), tt.want, fmt.Sprintf("trimFinalNewline(%q)", tt.in))
	}
}
