// internal/app/features/members/templates.go
package members

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "members",
		FS:       templateFS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
