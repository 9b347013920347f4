package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/brl/utils"
	"github.com/klauspost/compress/zstd"
)

var (
	// ErrUnsupportedScheme is returned for URLs that are not http or https.
	ErrUnsupportedScheme = errors.New("unsupported protocol")

	// ErrHTTPStatus is returned when a URL does not answer with 200 OK.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrIsDirectory is returned by Open for directories; use Discover.
	ErrIsDirectory = errors.New("source is a directory")
)

// Stdin is the argument that selects standard input.
const Stdin = "-"

// Source is a readable text document. The consumer is responsible for
// closing it.
type Source struct {
	io.ReadCloser

	// Name is the absolute path or URL of the document, empty for stdin.
	Name string
}

// ReadAll reads the whole document and closes it.
func (s *Source) ReadAll() (string, error) {
	defer s.Close() //nolint:errcheck
	b, err := io.ReadAll(s)
	if err != nil {
		return "", fmt.Errorf("unable to read %s: %w", s.displayName(), err)
	}
	return string(b), nil
}

// IsMarkdown reports whether the source name has a Markdown extension.
func (s *Source) IsMarkdown() bool {
	return s.Name != "" && utils.IsMarkdownFile(s.Name)
}

func (s *Source) displayName() string {
	if s.Name == "" {
		return "stdin"
	}
	return s.Name
}

// Open resolves arg into a Source. arg may be "-" for stdin, an http(s) URL
// or a file path. Directories yield ErrIsDirectory.
func Open(ctx context.Context, arg string) (*Source, error) {
	if arg == Stdin {
		return &Source{ReadCloser: io.NopCloser(os.Stdin)}, nil
	}

	if strings.Contains(arg, "://") {
		return openURL(ctx, arg)
	}

	path := utils.ExpandPath(arg)
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open file: %w", err)
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%s: %w", arg, ErrIsDirectory)
	}
	return OpenFile(path)
}

// OpenFile opens a local file. Files ending in ".zst" are decompressed.
func OpenFile(path string) (*Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("unable to get absolute path: %w", err)
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("unable to open file: %w", err)
	}

	if !strings.HasSuffix(abs, ".zst") {
		return &Source{ReadCloser: f, Name: abs}, nil
	}

	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("unable to create zstd decoder: %w", err)
	}
	log.Debug("decompressing source", "path", abs)
	return &Source{ReadCloser: &zstdReadCloser{dec: dec, f: f}, Name: abs}, nil
}

func openURL(ctx context.Context, arg string) (*Source, error) {
	u, err := url.ParseRequestURI(arg)
	if err != nil {
		return nil, fmt.Errorf("unable to parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%s: %w", u.Scheme, ErrUnsupportedScheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to get url: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %d", ErrHTTPStatus, resp.StatusCode)
	}

	log.Debug("fetched source", "url", u.String())
	return &Source{ReadCloser: resp.Body, Name: u.String()}, nil
}

type zstdReadCloser struct {
	dec *zstd.Decoder
	f   *os.File
}

func (z *zstdReadCloser) Read(p []byte) (int, error) {
	return z.dec.Read(p)
}

func (z *zstdReadCloser) Close() error {
	z.dec.Close()
	return z.f.Close()
}
