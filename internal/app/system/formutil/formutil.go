// Package formutil provides helpers for form re-rendering with validation errors.
//
// When a form submission fails validation, the form should be re-rendered with
// the values the user entered, an error message, and the usual page chrome.
//
// Example usage:
//
//	type buildingFormData struct {
//		formutil.Base
//		Code string
//		Name string
//	}
//
//	data := buildingFormData{Code: code, Name: name}
//	formutil.SetBase(&data.Base, r, "New Building", "/buildings")
//	data.SetError("Building name is required.")
//	templates.Render(w, r, "building_new", data)
package formutil

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/pghub/internal/app/system/viewdata"
)

// Base contains common fields for form pages that can be embedded in form data structs.
type Base struct {
	viewdata.BaseVM
	Error template.HTML
}

// SetBase populates the common Base fields from the request.
func SetBase(b *Base, r *http.Request, title, backDefault string) {
	b.BaseVM = viewdata.NewBaseVM(r, title, backDefault)
}

// SetError sets the error message. msg is escaped.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}
