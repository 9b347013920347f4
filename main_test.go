package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgnsrekt/brl/braille"
	"github.com/dgnsrekt/brl/internal/source"
	"github.com/spf13/cobra"
)

// withOptions resets the package-level flag values for one test.
func withOptions(t *testing.T) {
	t.Helper()
	oldWidth, oldMarkdown, oldNFC, oldJobs := width, markdown, nfc, jobs
	oldTUI, oldStats, oldAll, oldFilter := tui, showStats, showAllFiles, filter
	width, markdown, nfc, jobs = 0, false, false, 2
	tui, showStats, showAllFiles, filter = false, false, false, ""
	t.Cleanup(func() {
		width, markdown, nfc, jobs = oldWidth, oldMarkdown, oldNFC, oldJobs
		tui, showStats, showAllFiles, filter = oldTUI, oldStats, oldAll, oldFilter
	})
}

func testCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestExecuteArgFiles(t *testing.T) {
	withOptions(t)
	dir := t.TempDir()

	testCases := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"plain text", "hello.txt", "Hello 42\n", braille.Encode("Hello 42") + "\n"},
		{"markdown is reduced", "doc.md", "# Title\n\nSome *text*.", braille.Encode("Title\nSome text.") + "\n"},
		{"frontmatter is removed from markdown", "front.md", "---\na: b\n---\nok", braille.Encode("ok") + "\n"},
		{"separator lines are kept in text", "front.txt", "---\na: b\n---\nok", braille.Encode("---\na: b\n---\nok") + "\n"},
		{"empty file prints nothing", "empty.txt", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.file)
			writeFile(t, path, tc.content)

			var buf bytes.Buffer
			if err := executeArg(testCmd(), path, &buf); err != nil {
				t.Fatalf("executeArg: %v", err)
			}
			if buf.String() != tc.want {
				t.Errorf("got %q, want %q", buf.String(), tc.want)
			}
		})
	}
}

func TestExecuteArgWidth(t *testing.T) {
	withOptions(t)
	width = 4

	path := filepath.Join(t.TempDir(), "words.txt")
	writeFile(t, path, "ab cd ef")

	var buf bytes.Buffer
	if err := executeArg(testCmd(), path, &buf); err != nil {
		t.Fatalf("executeArg: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected wrapped output, got %q", buf.String())
	}
	if got := strings.ReplaceAll(buf.String(), "\n", ""); got != braille.Encode("ab cd ef") {
		t.Errorf("wrapping changed the cells: %q", got)
	}
}

func TestExecuteArgMissing(t *testing.T) {
	withOptions(t)
	var buf bytes.Buffer
	if err := executeArg(testCmd(), filepath.Join(t.TempDir(), "nope.txt"), &buf); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestExecuteDir(t *testing.T) {
	withOptions(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "a")
	writeFile(t, filepath.Join(dir, "sub", "b.md"), "# B")
	writeFile(t, filepath.Join(dir, "image.png"), "not text")

	var buf bytes.Buffer
	if err := executeArg(testCmd(), dir, &buf); err != nil {
		t.Fatalf("executeArg: %v", err)
	}

	want := "==> a.txt <==\n" + braille.Encode("a") + "\n" +
		"\n" +
		"==> " + filepath.Join("sub", "b.md") + " <==\n" + braille.Encode("B") + "\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestExecuteDirFilter(t *testing.T) {
	withOptions(t)
	filter = "b.md"

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "a")
	writeFile(t, filepath.Join(dir, "sub", "b.md"), "# B")

	var buf bytes.Buffer
	if err := executeDir(context.Background(), dir, &buf); err != nil {
		t.Fatalf("executeDir: %v", err)
	}
	want := "==> " + filepath.Join("sub", "b.md") + " <==\n" + braille.Encode("B") + "\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	filter = "zzz"
	if err := executeDir(context.Background(), dir, &buf); err == nil {
		t.Error("expected an error when the filter matches nothing")
	}
}

func TestExecuteDirEmpty(t *testing.T) {
	withOptions(t)
	var buf bytes.Buffer
	if err := executeDir(context.Background(), t.TempDir(), &buf); err == nil {
		t.Fatal("expected an error for a directory without documents")
	}
}

func TestStreamCLI(t *testing.T) {
	withOptions(t)

	for _, in := range []string{"ab 12", "\n\nHi\n\n", "", "x1"} {
		src := &source.Source{ReadCloser: io.NopCloser(strings.NewReader(in))}

		var buf bytes.Buffer
		if err := streamCLI(src, &buf); err != nil {
			t.Fatalf("streamCLI(%q): %v", in, err)
		}
		want := braille.Encode(in)
		if want != "" {
			want += "\n"
		}
		if buf.String() != want {
			t.Errorf("streamCLI(%q) = %q, want %q", in, buf.String(), want)
		}
	}
}

func TestStdinWidthKeepsText(t *testing.T) {
	withOptions(t)
	const in = "---\nChapter One\n---\nbody"

	run := func(w uint) string {
		t.Helper()
		width = w
		src := &source.Source{ReadCloser: io.NopCloser(strings.NewReader(in))}
		var buf bytes.Buffer
		if err := executeCLI(testCmd(), src, &buf); err != nil {
			t.Fatalf("executeCLI with width %d: %v", w, err)
		}
		return buf.String()
	}

	streamed, wrapped := run(0), run(80)
	if streamed != braille.Encode(in)+"\n" {
		t.Errorf("streamed = %q, want %q", streamed, braille.Encode(in)+"\n")
	}
	if wrapped != streamed {
		t.Errorf("width 80 changed the output:\n%q\nwant\n%q", wrapped, streamed)
	}
}

func TestExecuteWatchRejectsNonFiles(t *testing.T) {
	withOptions(t)
	for _, arg := range []string{source.Stdin, "https://example.com/a.txt"} {
		if err := executeWatch(context.Background(), arg, io.Discard); err == nil {
			t.Errorf("executeWatch(%q) should fail", arg)
		}
	}
}

func TestTableMarkdown(t *testing.T) {
	md := tableMarkdown(braille.Table())

	for _, want := range []string{
		"# Letter\n",
		"# Digit\n",
		"# Punctuation\n",
		"# Indicator\n",
		"| `a` | ⠁ | 1 | U+2801 |",
		"| `0` | ⠚ | 2-4-5 | U+281A |",
		"| space | ⠀ | none | U+2800 |",
		"| capital sign | ⠠ | 6 | U+2820 |",
		"| number sign | ⠼ | 3-4-5-6 | U+283C |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("table markdown is missing %q", want)
		}
	}

	if n := strings.Count(md, "\n| "); n != len(braille.Table())+4 {
		t.Errorf("got %d table rows, want %d", n, len(braille.Table())+4)
	}
}

func TestDotsLabel(t *testing.T) {
	testCases := []struct {
		cell braille.Cell
		want string
	}{
		{braille.Blank, "none"},
		{braille.CapitalSign, "6"},
		{braille.NumberSign, "3-4-5-6"},
		{braille.Cell('⠁'), "1"},
	}
	for _, tc := range testCases {
		if got := dotsLabel(tc.cell); got != tc.want {
			t.Errorf("dotsLabel(%U) = %q, want %q", rune(tc.cell), got, tc.want)
		}
	}
}

func TestEnsureConfigFile(t *testing.T) {
	old := configFile
	t.Cleanup(func() { configFile = old })

	configFile = filepath.Join(t.TempDir(), "nested", "brl.yml")
	if err := ensureConfigFile(); err != nil {
		t.Fatalf("ensureConfigFile: %v", err)
	}
	b, err := os.ReadFile(configFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != defaultConfig {
		t.Errorf("unexpected config contents:\n%s", b)
	}

	configFile = filepath.Join(t.TempDir(), "brl.toml")
	if err := ensureConfigFile(); err == nil {
		t.Error("expected an error for a non-YAML config file")
	}
}

func TestValidateConfigFile(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"default config", defaultConfig, false},
		{"empty file", "", false},
		{"unknown key", "style: dark\n", true},
		{"wrong type", "width: wide\n", true},
		{"negative jobs", "jobs: -1\n", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tc.name, " ", "-")+".yml")
			writeFile(t, path, tc.content)
			err := validateConfigFile(path)
			if (err != nil) != tc.wantErr {
				t.Errorf("validateConfigFile() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
