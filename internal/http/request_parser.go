package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"numus/internal/core"
)

// Messages shown for rejected input.
const (
	MsgInvalidRequest  = "Formato de requisição inválido"
	MsgInvalidAmount   = "Valor inválido"
	MsgInvalidDate     = "Data inválida"
	MsgInvalidType     = "Tipo inválido"
	MsgInvalidGoal     = "Meta inválida"
	MsgGoalNotFound    = "Meta não encontrada"
	MsgUnknownRecord   = "Registro desconhecido"
	MsgSaveFailed      = "Erro ao salvar"
	MsgLoadFailed      = "Erro ao carregar os dados"
	MsgTemplatesFailed = "Templates não carregados"
)

const maxBodyBytes = 1 << 20

// RequestBodyParser reads a JSON or form-encoded body once and serves
// field lookups from either.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}
	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.body[0] == '{' {
		p.jsonData = make(map[string]interface{})
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a sanitized, trimmed value from the parsed data.
func (p *RequestBodyParser) Get(key string) string {
	return strings.TrimSpace(p.GetRaw(key))
}

// GetRaw returns a sanitized value without trimming, for fields where
// surrounding whitespace counts (passwords).
func (p *RequestBodyParser) GetRaw(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// RequireMethod returns a 405 response unless r uses one of methods.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// ParseFormOrFail parses the request form and returns an error response on failure.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError(MsgInvalidRequest)
	}
	return nil
}

// ParseReportFilter reads the reports filter from query parameters.
// Unparsable dates and unknown types are ignored rather than rejected.
func ParseReportFilter(q url.Values) core.ReportFilter {
	f := core.ReportFilter{
		Category: sanitizeInput(strings.TrimSpace(q.Get("category"))),
		Search:   sanitizeInput(strings.TrimSpace(q.Get("q"))),
		Sort:     strings.TrimSpace(q.Get("sort")),
	}
	if t := core.TxType(strings.TrimSpace(q.Get("type"))); t.Valid() {
		f.Type = t
	}
	if d, err := core.ParseDate(strings.TrimSpace(q.Get("from"))); err == nil {
		f.From = d
	}
	if d, err := core.ParseDate(strings.TrimSpace(q.Get("to"))); err == nil {
		f.To = d
	}
	switch f.Sort {
	case core.SortDateAsc, core.SortDateDesc, core.SortAmountAsc, core.SortAmountDesc:
	default:
		f.Sort = core.SortDateDesc
	}
	return f
}

// EncodeReportFilter is the inverse of ParseReportFilter, used for the
// CSV export link.
func EncodeReportFilter(f core.ReportFilter) string {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	if !f.From.IsZero() {
		q.Set("from", f.From.String())
	}
	if !f.To.IsZero() {
		q.Set("to", f.To.String())
	}
	if f.Search != "" {
		q.Set("q", f.Search)
	}
	if f.Sort != "" && f.Sort != core.SortDateDesc {
		q.Set("sort", f.Sort)
	}
	return q.Encode()
}

// transactionInput is the body of POST /api/transactions. Amount accepts
// a JSON number or string; id and date are optional.
type transactionInput struct {
	ID          int64       `json:"id"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Type        core.TxType `json:"type"`
	Amount      core.Money  `json:"amount"`
}

var errInvalidTransaction = errors.New("invalid transaction")

// ParseTransaction decodes a JSON transaction. A missing date means
// today.
func ParseTransaction(r io.Reader, today core.Date) (core.Transaction, error) {
	var in transactionInput
	if err := jsonDecoder(r).Decode(&in); err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %v", errInvalidTransaction, err)
	}
	tx := core.Transaction{
		ID:          in.ID,
		Date:        today,
		Description: sanitizeInput(strings.TrimSpace(in.Description)),
		Category:    sanitizeInput(strings.TrimSpace(in.Category)),
		Type:        in.Type,
		Amount:      in.Amount,
	}
	if in.Date != "" {
		d, err := core.ParseDate(in.Date)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("%w: %w", errInvalidTransaction, core.ErrInvalidDate)
		}
		tx.Date = d
	}
	return tx, nil
}

func jsonDecoder(r io.Reader) *json.Decoder {
	return json.NewDecoder(io.LimitReader(r, maxBodyBytes))
}

// parseGoalID reads the {id} path segment.
func parseGoalID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
