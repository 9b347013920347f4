package ui

// Config contains TUI-specific configuration.
type Config struct {
	HomeDir     string `env:"HOME"`
	Width       uint   // wrap width, zero wraps at the window width
	EnableMouse bool
	Markdown    bool // reduce Markdown sources to plain text
	Normalize   bool // NFC-normalize input before encoding

	// File path of the document, empty for piped content or the editor.
	Path string

	// Start in the live editor instead of the pager.
	Editor bool

	// For debugging the UI
	ShowSource bool `env:"BRL_SHOW_SOURCE" envDefault:"false"`
}
