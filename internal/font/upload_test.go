package font

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeStem(t *testing.T) {
	cases := map[string]string{
		"Foo Bar.ttf":             "FooBar",
		"Open-Sans_Bold.TTF":      "Open-Sans_Bold",
		"../../etc/évil name.ttf": "vilname",
		`C:\fonts\Mono.ttf`:       "Mono",
		"@@@.ttf":                 "font",
		"archive.tar.ttf":         "archivetar",
	}
	for in, want := range cases {
		require.Equal(t, want, SanitizeStem(in), in)
	}
}

func TestStoredName(t *testing.T) {
	name := StoredName("Foo Bar.ttf", 1700000000)
	require.Equal(t, "FooBar_1700000000.ttf", name)
	require.Regexp(t, regexp.MustCompile(`^FooBar_\d+\.ttf$`), name)
}

func TestHasFontExtension(t *testing.T) {
	require.True(t, HasFontExtension("a.ttf"))
	require.True(t, HasFontExtension("a.TTF"))
	require.False(t, HasFontExtension("a.otf"))
	require.False(t, HasFontExtension("ttf"))
	require.False(t, HasFontExtension("a.ttf.zip"))
}

func TestTooLargeMessage(t *testing.T) {
	require.Equal(t, "File size exceeds the maximum limit of 10MB.", TooLargeMessage(DefaultMaxBytes))
	require.Equal(t, "File size exceeds the maximum limit of 1500 bytes.", TooLargeMessage(1500))
}

func TestCleanFilename(t *testing.T) {
	require.Equal(t, "a.ttf", CleanFilename("a.ttf"))
	require.Equal(t, "passwd", CleanFilename("../../etc/passwd"))
	require.Equal(t, "x.ttf", CleanFilename(`..\..\x.ttf`))
	require.Equal(t, "", CleanFilename("  "))
	require.Equal(t, "", CleanFilename(".."))
	require.Equal(t, "", CleanFilename("/"))
	require.Equal(t, "/uploads/a.ttf", PublicPath("a.ttf"))
}
