// Package utils contains small helpers shared by the command and the TUI.
package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mitchellh/go-homedir"
)

var markdownExtensions = []string{
	".md", ".mdown", ".mkdn", ".mkd", ".markdown",
}

// RemoveFrontmatter removes the YAML front matter header of a document.
func RemoveFrontmatter(content []byte) []byte {
	if frontmatterBoundaries := detectFrontmatter(content); frontmatterBoundaries[0] == 0 {
		return content[frontmatterBoundaries[1]:]
	}
	return content
}

var yamlPattern = regexp.MustCompile(`(?m)^---\r?\n(\s*\r?\n)?`)

func detectFrontmatter(c []byte) []int {
	if matches := yamlPattern.FindAllIndex(c, 2); len(matches) > 1 {
		return []int{matches[0][0], matches[1][1]}
	}
	return []int{-1, -1}
}

// ExpandPath expands tilde and all environment variables from the given path.
func ExpandPath(path string) string {
	s, err := homedir.Expand(path)
	if err == nil {
		return os.ExpandEnv(s)
	}
	return os.ExpandEnv(path)
}

// IsMarkdownFile returns whether the filename has a markdown extension. A
// trailing ".zst" is ignored.
func IsMarkdownFile(filename string) bool {
	filename = strings.TrimSuffix(filename, ".zst")
	ext := strings.ToLower(filepath.Ext(filename))
	for _, v := range markdownExtensions {
		if ext == v {
			return true
		}
	}
	return false
}
