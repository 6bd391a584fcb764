package font

import "time"

// Font is metadata derived from a stored font file; it is never persisted on
// its own. Filename is only set in upload responses, where Name carries the
// client's original filename.
type Font struct {
	Name       string    `json:"name"`
	Filename   string    `json:"filename,omitempty"`
	Path       string    `json:"path"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// PathPrefix is the public URL prefix under which stored fonts are served.
const PathPrefix = "/uploads/"

// PublicPath returns the public path of a stored filename.
func PublicPath(filename string) string { return PathPrefix + filename }
