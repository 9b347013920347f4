package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgnsrekt/brl/braille"
	"github.com/mattn/go-runewidth"
)

func TestRemoveFrontmatter(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no front matter", "hello\n", "hello\n"},
		{"front matter", "---\ntitle: x\n---\nhello\n", "hello\n"},
		{"front matter with blank line", "---\ntitle: x\n---\n\nhello", "hello"},
		{"rule in the middle", "hello\n---\nworld\n---\n", "hello\n---\nworld\n---\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(RemoveFrontmatter([]byte(tt.in))); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsMarkdownFile(t *testing.T) {
	for name, want := range map[string]bool{
		"README.md":        true,
		"notes.MARKDOWN":   true,
		"notes.md.zst":     true,
		"story.txt":        false,
		"story.txt.zst":    false,
		"Makefile":         false,
		"dir/chapter.mkdn": true,
	} {
		if got := IsMarkdownFile(name); got != want {
			t.Errorf("IsMarkdownFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	t.Setenv("BRL_TEST_DIR", "texts")

	if got, want := ExpandPath("~/$BRL_TEST_DIR/a.txt"), filepath.Join(home, "texts", "a.txt"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := ExpandPath("plain.txt"); got != "plain.txt" {
		t.Errorf("got %q, want plain.txt", got)
	}
}

func TestWrapBraille(t *testing.T) {
	in := braille.Encode("The quick brown fox jumps over the lazy dog 1234567890 times\nAnd Again")

	for _, width := range []int{5, 10, 17, 40} {
		out := WrapBraille(in, width)
		if w := maxLineWidth(out); w > width {
			t.Errorf("width %d: widest line is %d", width, w)
		}
		if strip(out) != strip(in) {
			t.Errorf("width %d: wrapping changed the cells", width)
		}
	}
}

func TestWrapBraille_Disabled(t *testing.T) {
	in := braille.Encode("no wrapping here")
	if got := WrapBraille(in, 0); got != in {
		t.Errorf("got %q, want unchanged", got)
	}
}

func maxLineWidth(s string) int {
	var n int
	for _, l := range strings.Split(s, "\n") {
		n = max(n, runewidth.StringWidth(l))
	}
	return n
}

func TestMaxLineWidth(t *testing.T) {
	if got := maxLineWidth("⠁⠃\n⠁⠃⠉⠙\n"); got != 4 {
		t.Errorf("got %d, want 4", got)
	}
}

func strip(s string) string {
	return strings.ReplaceAll(s, "\n", "")
}
