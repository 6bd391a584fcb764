package fontgroup

import "time"

// FontEntry pairs a display label with the stored filename of an uploaded font.
type FontEntry struct {
	Name     string `json:"name" bson:"name"`
	FontFile string `json:"fontFile" bson:"fontFile"`
}

// Group is a named, ordered collection of font entries.
type Group struct {
	ID        string      `json:"id" bson:"id"`
	Title     string      `json:"title" bson:"title"`
	Fonts     []FontEntry `json:"fonts" bson:"fonts"`
	CreatedAt time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt *time.Time  `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// Input is the caller-supplied part of a group, used by create and update.
type Input struct {
	Title string      `json:"title"`
	Fonts []FontEntry `json:"fonts"`
}

// References reports whether any entry points at fontFile.
func (g *Group) References(fontFile string) bool {
	for _, f := range g.Fonts {
		if f.FontFile == fontFile {
			return true
		}
	}
	return false
}
