// internal/app/features/buildings/templates.go
package buildings

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "buildings",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
