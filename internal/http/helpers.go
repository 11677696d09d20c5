package http

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"numus/internal/core"
	applog "numus/internal/log"
	"numus/internal/render"
)

// sanitizeInput drops control characters other than tab and newlines.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// templateFuncs exposes the formatter and type styling to templates.
func templateFuncs(f *render.Formatter) template.FuncMap {
	return template.FuncMap{
		"currency":   f.Currency,
		"date":       f.Date,
		"monthLabel": f.MonthLabel,
		"typeClass":  render.TypeClass,
		"typeLabel":  render.TypeLabel,
		"cents":      func(m core.Money) string { return core.FormatCents(m.Cents) },
		// chart SVG is produced by go-chart from numbers and formatter
		// output only
		"svg": func(b []byte) template.HTML { return template.HTML(b) },
	}
}

// execute renders name into w, answering 500 when templates are missing
// or execution fails.
func (s *Server) execute(w http.ResponseWriter, r *http.Request, name string, data any) {
	s.executeWith(w, r, NewHTMXResponse(), name, data)
}

// executeWith renders name as the body of b, so triggers and status can
// be set alongside the markup.
func (s *Server) executeWith(w http.ResponseWriter, r *http.Request, b *HTMXResponseBuilder, name string, data any) {
	logger := applog.FromContext(r.Context())
	if s.templates == nil {
		logger.ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		InternalServerError(MsgTemplatesFailed).Write(w)
		return
	}
	var buf strings.Builder
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		logger.ErrorContext(r.Context(), "Template execution failed",
			applog.FieldOperation, applog.OpRender,
			applog.FieldTemplate, name,
			applog.FieldError, err)
		InternalServerError(MsgTemplatesFailed).Write(w)
		return
	}
	b.BodyHTML(buf.String()).Write(w)
}
