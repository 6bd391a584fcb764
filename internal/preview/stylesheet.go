// Package preview renders the @font-face stylesheet the UI uses to show
// stored fonts in their own typeface.
package preview

import (
	"io"
	"net/url"
	"strings"
	"text/template"

	"github.com/typeshelf/typeshelf/backend/go-services/internal/font"
)

// ServePath is the endpoint that streams raw font bytes.
const ServePath = "/api/serve-font"

// Face is one @font-face rule.
type Face struct {
	Family string
	URL    string
}

var sheet = template.Must(template.New("faces").Parse(`/* generated: {{len .}} font faces */
{{range .}}@font-face {
  font-family: '{{.Family}}';
  src: url('{{.URL}}') format('truetype');
  font-display: swap;
}
{{end}}`))

// Family returns the CSS family name used for a stored filename.
func Family(filename string) string {
	return "font-" + font.SanitizeStem(filename)
}

// FontURL returns the serve URL of a stored filename.
func FontURL(filename string) string {
	return ServePath + "?filename=" + url.QueryEscape(filename)
}

// Faces maps stored fonts to rules, keeping their order.
func Faces(fonts []*font.Font) []Face {
	out := make([]Face, 0, len(fonts))
	for _, f := range fonts {
		name := f.Filename
		if name == "" {
			name = f.Name
		}
		// quotes would break out of the url('') literal
		if strings.ContainsAny(name, `'"`) {
			continue
		}
		out = append(out, Face{Family: Family(name), URL: FontURL(name)})
	}
	return out
}

// WriteStylesheet writes one @font-face rule per font to w.
func WriteStylesheet(w io.Writer, fonts []*font.Font) error {
	return sheet.Execute(w, Faces(fonts))
}
