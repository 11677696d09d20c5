package http

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"numus/internal/core"
	applog "numus/internal/log"
	"numus/internal/render"
	"numus/internal/services"
)

// ReportPageSize is the number of rows per reports page.
const ReportPageSize = 20

// CSVHeader is the first row of the reports export.
var CSVHeader = []string{"Categoria", "Data", "Tipo", "Valor", "Descrição"}

type reportView struct {
	services.Report
	Rows       []core.Transaction
	Types      []core.TxType
	Page       int
	Pages      int
	PrevQuery  string
	NextQuery  string
	ExportLink string
}

func newReportView(rep services.Report, page int) reportView {
	pages := (len(rep.Transactions) + ReportPageSize - 1) / ReportPageSize
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * ReportPageSize
	end := min(start+ReportPageSize, len(rep.Transactions))

	filter := EncodeReportFilter(rep.Filter)
	pageQuery := func(p int) string {
		q := "page=" + strconv.Itoa(p)
		if filter != "" {
			q = filter + "&" + q
		}
		return q
	}

	v := reportView{
		Report:     rep,
		Rows:       rep.Transactions[start:end],
		Types:      []core.TxType{core.Income, core.Expense, core.Invest},
		Page:       page,
		Pages:      pages,
		ExportLink: "/reports/export.csv",
	}
	if filter != "" {
		v.ExportLink += "?" + filter
	}
	if page > 1 {
		v.PrevQuery = pageQuery(page - 1)
	}
	if page < pages {
		v.NextQuery = pageQuery(page + 1)
	}
	return v
}

// handleReports renders the filtered listing. HTMX requests from the
// filter form get only the results block.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rep, err := s.dashboard.Report(r.Context(), ParseReportFilter(q))
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Report load failed", applog.FieldError, err)
		InternalServerError(MsgLoadFailed).Write(w)
		return
	}
	page, _ := strconv.Atoi(q.Get("page"))
	view := newReportView(rep, page)

	if isHTMX(r) {
		s.execute(w, r, "report_results", view)
		return
	}
	s.execute(w, r, "reports.html", view)
}

// handleReportsCSV exports every row matching the filter, unpaginated.
func (s *Server) handleReportsCSV(w http.ResponseWriter, r *http.Request) {
	rep, err := s.dashboard.Report(r.Context(), ParseReportFilter(r.URL.Query()))
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Report load failed", applog.FieldError, err)
		InternalServerError(MsgLoadFailed).Write(w)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="relatorios.csv"`)
	cw := csv.NewWriter(w)
	_ = cw.Write(CSVHeader)
	for _, tx := range rep.Transactions {
		_ = cw.Write([]string{
			tx.Category,
			tx.Date.String(),
			render.TypeLabel(tx.Type),
			core.FormatCents(tx.Amount.Cents),
			tx.Description,
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "CSV export failed", applog.FieldError, err)
	}
}
