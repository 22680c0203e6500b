// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/pghub/internal/app/system/auth"
	"github.com/dalemusser/pghub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger logs a failure with request context and then shows the user a
// friendly error page. Handlers call it instead of http.Error.
type ErrorLogger struct {
	Log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// LogServerError logs at error level and renders a 500 page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.Log.Error(logMsg, append(requestFields(r), zap.Error(err))...)
	e.render(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL)
}

// LogBadRequest logs at warn level and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	fields := requestFields(r)
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	e.Log.Warn(logMsg, fields...)
	e.render(w, r, http.StatusBadRequest, "Bad request", userMsg, backURL)
}

// LogForbidden logs at info level and renders a 403 page.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, logMsg, userMsg, backURL string) {
	e.Log.Info(logMsg, requestFields(r)...)
	e.render(w, r, http.StatusForbidden, "Access denied", userMsg, backURL)
}

// LogNotFound logs at info level and renders a 404 page.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, logMsg, userMsg, backURL string) {
	e.Log.Info(logMsg, requestFields(r)...)
	e.render(w, r, http.StatusNotFound, "Not found", userMsg, backURL)
}

func (e *ErrorLogger) render(w http.ResponseWriter, r *http.Request, status int, title, msg, backURL string) {
	vm := viewdata.NewBaseVM(r, title, "/dashboard")
	if backURL != "" {
		vm.BackURL = backURL
	}
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", pageData{BaseVM: vm, Message: msg})
}

func requestFields(r *http.Request) []zap.Field {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if u, ok := auth.CurrentUser(r); ok {
		fields = append(fields, zap.String("user_id", u.ID))
	}
	return fields
}
