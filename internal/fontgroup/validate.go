package fontgroup

import (
	"strings"

	"github.com/typeshelf/typeshelf/backend/go-services/internal/apperr"
)

// MinFonts is the smallest number of entries a group may hold.
const MinFonts = 2

const (
	MsgTitleRequired   = "Group title is required."
	MsgTooFewFonts     = "At least two fonts are required."
	MsgEntryName       = "Each font must have a name."
	MsgEntryFile       = "Each font must have a font file selected."
	MsgDuplicateFont   = "Duplicate fonts are not allowed."
	MsgGroupNotFound   = "Font group not found."
	MsgGroupIDRequired = "Group ID is required."
	MsgInvalidJSON     = "Invalid JSON data."
)

// Validate checks the group rules in a fixed order and reports the first
// violation. fontFile values are compared exactly; they are not resolved
// against the font store.
func Validate(in Input) error {
	if strings.TrimSpace(in.Title) == "" {
		return apperr.Validation(MsgTitleRequired)
	}
	if len(in.Fonts) < MinFonts {
		return apperr.Validation(MsgTooFewFonts)
	}
	seen := make(map[string]struct{}, len(in.Fonts))
	for _, f := range in.Fonts {
		if strings.TrimSpace(f.Name) == "" {
			return apperr.Validation(MsgEntryName)
		}
		if strings.TrimSpace(f.FontFile) == "" {
			return apperr.Validation(MsgEntryFile)
		}
		if _, dup := seen[f.FontFile]; dup {
			return apperr.Validation(MsgDuplicateFont)
		}
		seen[f.FontFile] = struct{}{}
	}
	return nil
}
