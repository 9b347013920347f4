// Package source resolves command line arguments into readable text: stdin,
// local files (optionally zstd-compressed), HTTP(S) URLs and directories of
// text documents. It can also reduce Markdown to the plain text that gets
// transliterated.
package source
