package auditlog

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "auditlog",
		FS:       templateFS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
