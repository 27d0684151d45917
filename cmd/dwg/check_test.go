package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/dwg/internal/report"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func assertExitCode(t *testing.T, err error, wantCode int) {
	t.Helper()
	if wantCode == 0 {
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		return
	}
	if err == nil {
		t.Fatalf("expected exit code %d, got nil error", wantCode)
	}
	var ee *exitErr
	if !errors.As(err, &ee) {
		t.Fatalf("expected *exitErr, got %T: %v", err, err)
	}
	if ee.code != wantCode {
		t.Errorf("exit code = %d, want %d (msg: %s)", ee.code, wantCode, ee.msg)
	}
}

func newFlags(format string) (*checkFlags, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &checkFlags{format: format, stdout: out, stderr: &bytes.Buffer{}}, out
}

func decodeRun(t *testing.T, data []byte) report.Run {
	t.Helper()
	var run report.Run
	if err := json.Unmarshal(data, &run); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, data)
	}
	return run
}

const (
	cleanText   = "The cache holds 512 entries per shard in v2.\n"
	failingText = "This is vibrant and pivotal.\n"
	// One broad term in thirty words lands between the warn and fail thresholds.
	warnText = "We fixed various issues in the parser after reading the bug reports that users filed during " +
		"the spring release cycle and then shipped the patch to every customer last week.\n"
)

func TestRunCheckClean(t *testing.T) {
	t.Setenv("DWG_CONFIG", "")
	path := writeTempFile(t, t.TempDir(), "clean.md", cleanText)
	f, out := newFlags("json")

	err := runCheck(context.Background(), []string{path}, f)
	assertExitCode(t, err, 0)

	run := decodeRun(t, out.Bytes())
	if run.Tool != "dwg" || run.Version != version {
		t.Errorf("unexpected envelope %s %s", run.Tool, run.Version)
	}
	if len(run.Files) != 1 || run.Files[0].Verdict != report.VerdictClean {
		t.Fatalf("unexpected files %+v", run.Files)
	}
	if !strings.HasPrefix(run.Files[0].Hash, "sha256:") {
		t.Errorf("missing hash: %q", run.Files[0].Hash)
	}
	if run.Files[0].Report.Profile != "default" {
		t.Errorf("profile = %q", run.Files[0].Report.Profile)
	}
	if run.Files[0].Normalized {
		t.Error("LF input should not be marked normalized")
	}
}

func TestRunCheckMarksNormalizedInput(t *testing.T) {
	t.Setenv("DWG_CONFIG", "")
	path := writeTempFile(t, t.TempDir(), "crlf.md", "Intro line.\r\nThis is vibrant prose.\r\n")
	f, out := newFlags("json")

	err := runCheck(context.Background(), []string{path}, f)
	assertExitCode(t, err, 1)

	run := decodeRun(t, out.Bytes())
	if len(run.Files) != 1 || !run.Files[0].Normalized {
		t.Fatalf("expected a normalized file report, got %+v", run.Files)
	}
	d := run.Files[0].Report.Diagnostics
	if len(d) == 0 || d[0].Span.Start != strings.Index("Intro line.\nThis is vibrant prose.\n", "vibrant") {
		t.Errorf("spans should index the LF text, got %+v", d)
	}
}

func TestRunCheckFailThreshold(t *testing.T) {
	t.Setenv("DWG_CONFIG", "")
	path := writeTempFile(t, t.TempDir(), "bad.md", failingText)
	f, out := newFlags("text")
	f.noColor = true

	err := runCheck(context.Background(), []string{path}, f)
	assertExitCode(t, err, exitThreshold)
	if !strings.Contains(out.String(), "[puffery]") {
		t.Errorf("text output missing puffery finding:\n%s", out.String())
	}
}

func TestRunCheckStrict(t *testing.T) {
	t.Setenv("DWG_CONFIG", "")
	path := writeTempFile(t, t.TempDir(), "warn.md", warnText)

	f, out := newFlags("json")
	assertExitCode(t, runCheck(context.Background(), []string{path}, f), 0)
	if run := decodeRun(t, out.Bytes()); run.Summary.Verdict != report.VerdictWarn {
		t.Fatalf("verdict = %s, want warn", run.Summary.Verdict)
	}

	f, _ = newFlags("json")
	f.strict = true
	assertExitCode(t, runCheck(context.Background(), []string{path}, f), exitThreshold)
}

func TestRunCheckUsageErrors(t *testing.T) {
	t.Setenv("DWG_CONFIG", "")
	dir := t.TempDir()
	good := writeTempFile(t, dir, "good.md", cleanText)
	badConfig := writeTempFile(t, dir, "bad.yaml", "no_such_key: 1\n")
	badRegex := writeTempFile(t, dir, "regex.yaml", "templates:\n  ban: ['(unclosed']\n")

	tests := []struct {
		name   string
		args   []string
		mutate func(f *checkFlags)
	}{
		{"missing file", []string{filepath.Join(dir, "missing.md")}, nil},
		{"unknown profile", []string{good}, func(f *checkFlags) { f.profileName = "nope" }},
		{"unknown format", []string{good}, func(f *checkFlags) { f.format = "xml" }},
		{"bad config", []string{good}, func(f *checkFlags) { f.configPath = badConfig }},
		{"missing config", []string{good}, func(f *checkFlags) { f.configPath = filepath.Join(dir, "nope.yaml") }},
		{"bad template regex", []string{good}, func(f *checkFlags) { f.configPath = badRegex }},
		{"stdin mixed with paths", []string{"-", good}, nil},
		{"empty directory", []string{t.TempDir()}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := newFlags("json")
			if tt.mutate != nil {
				tt.mutate(f)
			}
			assertExitCode(t, runCheck(context.Background(), tt.args, f), exitUsage)
		})
	}
}

func TestRunCheckConfigThresholds(t *testing.T) {
	t.Setenv("DWG_CONFIG", "")
	dir := t.TempDir()
	path := writeTempFile(t, dir, "bad.md", failingText)
	cfg := writeTempFile(t, dir, "dwg.yaml", "scores:\n  warn_threshold_per_100w: 500\n  fail_threshold_per_100w: 1000\n")

	f, _ := newFlags("json")
	f.configPath = cfg
	assertExitCode(t, runCheck(context.Background(), []string{path}, f), 0)
}

func TestRunCheckConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "bad.md", failingText)
	t.Setenv("DWG_CONFIG", writeTempFile(t, dir, "dwg.yaml", "scores:\n  fail_threshold_per_100w: 1000\n  warn_threshold_per_100w: 500\n"))

	f, _ := newFlags("json")
	assertExitCode(t, runCheck(context.Background(), []string{path}, f), 0)
}

func TestRunCheckStdin(t *testing.T) {
	t.Setenv("DWG_CONFIG", "")
	f, out := newFlags("md")
	f.stdin = strings.NewReader("This is vibrant.\r\n")

	err := runCheck(context.Background(), []string{"-"}, f)
	assertExitCode(t, err, exitThreshold)
	md := out.String()
	if !strings.Contains(md, "## -") || !strings.Contains(md, "[puffery]") {
		t.Errorf("unexpected markdown:\n%s", md)
	}
}

func TestRunCheckDirectoryParallel(t *testing.T) {
	t.Setenv("DWG_CONFIG", "")
	dir := t.TempDir()
	names := []string{"d.md", "a.md", "c.txt", "b.md", "e.rst"}
	for _, n := range names {
		writeTempFile(t, dir, n, cleanText)
	}
	writeTempFile(t, dir, "main.go", "package main\n")
	outPath := filepath.Join(dir, "out", "report.json")
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		t.Fatal(err)
	}

	f, stdout := newFlags("json")
	f.jobs = 2
	f.out = outPath
	f.exclude = []string{"**/e.rst"}
	assertExitCode(t, runCheck(context.Background(), []string{dir}, f), 0)
	if stdout.Len() != 0 {
		t.Error("--out should keep stdout empty")
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	run := decodeRun(t, data)
	var got []string
	for _, fr := range run.Files {
		got = append(got, filepath.Base(fr.Path))
	}
	want := []string{"a.md", "b.md", "c.txt", "d.md"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("files = %v, want %v", got, want)
	}
	if run.Summary.Files != 4 {
		t.Errorf("summary files = %d", run.Summary.Files)
	}
}

func TestRunCheckForcedProfile(t *testing.T) {
	t.Setenv("DWG_CONFIG", "")
	path := writeTempFile(t, t.TempDir(), "guide.md", "# Overview\n\nThe tool reads files.\n")
	f, out := newFlags("json")
	f.profileName = "readme"

	_ = runCheck(context.Background(), []string{path}, f)
	run := decodeRun(t, out.Bytes())
	r := run.Files[0].Report
	if r.Profile != "readme" {
		t.Fatalf("profile = %q", r.Profile)
	}
	if r.Count(report.CategoryStructure) == 0 {
		t.Error("readme profile should require a usage section and a code block")
	}
}

func TestRunCheckDebugValidation(t *testing.T) {
	t.Setenv("DWG_CONFIG", "")
	path := writeTempFile(t, t.TempDir(), "bad.md", "# Title Case Heading Here\n\nThis is vibrant — really — truly.\n")
	f, _ := newFlags("json")
	f.debug = true
	stderr := &bytes.Buffer{}
	f.stderr = stderr

	_ = runCheck(context.Background(), []string{path}, f)
	if strings.Contains(stderr.String(), "validation") {
		t.Errorf("analyzer output should validate cleanly:\n%s", stderr.String())
	}
}

func TestRelativePath(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if got := relativePath(filepath.Join(cwd, "docs", "a.md")); got != filepath.Join("docs", "a.md") {
		t.Errorf("got %q", got)
	}
	if got := relativePath("docs/a.md"); got != "docs/a.md" {
		t.Errorf("got %q", got)
	}
	outside := filepath.Join(filepath.Dir(cwd), "elsewhere.md")
	if got := relativePath(outside); got != outside {
		t.Errorf("got %q", got)
	}
}

func TestProfilesCommands(t *testing.T) {
	t.Setenv("DWG_CONFIG", "")

	run := func(args ...string) (string, error) {
		out := &bytes.Buffer{}
		root := newRootCmd(strings.NewReader(""), out, &bytes.Buffer{})
		root.SetArgs(args)
		err := root.Execute()
		return out.String(), err
	}

	out, err := run("profiles", "list")
	assertExitCode(t, err, 0)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 || lines[0] != "default" || !strings.HasPrefix(lines[3], "readme\tREADME*") {
		t.Errorf("unexpected list output:\n%s", out)
	}

	out, err = run("profiles", "show", "readme")
	assertExitCode(t, err, 0)
	for _, want := range []string{"## Profile: readme", "### Globs", "### Rules", "required_headings"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	_, err = run("profiles", "show", "nope")
	assertExitCode(t, err, exitUsage)
}
