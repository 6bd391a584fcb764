package font

import (
	"fmt"
	"path"
	"strings"
)

const (
	// DefaultMaxBytes is the upload limit when none is configured.
	DefaultMaxBytes int64 = 10 * 1024 * 1024

	Extension   = "ttf"
	ContentType = "font/ttf"

	MsgNoFile           = "No file uploaded."
	MsgOnlyTTF          = "Only .ttf files are allowed."
	MsgSaveFailed       = "Failed to save the font file."
	MsgNotFound         = "Font file not found."
	MsgDeleteFailed     = "Failed to delete the font file."
	MsgFilenameRequired = "Filename is required."
)

// TooLargeMessage renders the size-limit message for max bytes.
func TooLargeMessage(max int64) string {
	const mib = 1024 * 1024
	if max%mib == 0 {
		return fmt.Sprintf("File size exceeds the maximum limit of %dMB.", max/mib)
	}
	return fmt.Sprintf("File size exceeds the maximum limit of %d bytes.", max)
}

// HasFontExtension reports whether name ends in .ttf, ignoring case.
func HasFontExtension(name string) bool {
	return strings.EqualFold(strings.TrimPrefix(path.Ext(name), "."), Extension)
}

// SanitizeStem returns the client filename without directory and extension,
// keeping only [A-Za-z0-9_-]. An empty result becomes "font".
func SanitizeStem(original string) string {
	base := path.Base(strings.ReplaceAll(original, `\`, "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "font"
	}
	return b.String()
}

// StoredName builds "<stem>_<unix>.ttf".
func StoredName(original string, unix int64) string {
	return fmt.Sprintf("%s_%d.%s", SanitizeStem(original), unix, Extension)
}

// CleanFilename reduces a client-supplied stored filename to its base name so
// it can never address anything outside the font store.
func CleanFilename(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	if name == "" {
		return ""
	}
	base := path.Base(name)
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return base
}
