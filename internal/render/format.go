// Package render turns aggregation results into display values: currency
// and date labels, palette colours and SVG charts.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"numus/internal/core"
)

// Formatter renders amounts and dates for one locale.
type Formatter struct {
	tag     language.Tag
	symbol  string
	printer *message.Printer
	months  [12]string
	pt      bool
}

var (
	monthsPT = [12]string{"jan.", "fev.", "mar.", "abr.", "mai.", "jun.", "jul.", "ago.", "set.", "out.", "nov.", "dez."}
	monthsEN = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

func NewFormatter(locale, symbol string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	base, _ := tag.Base()
	f := &Formatter{
		tag:     tag,
		symbol:  symbol,
		printer: message.NewPrinter(tag),
		months:  monthsEN,
	}
	if base.String() == "pt" {
		f.pt = true
		f.months = monthsPT
	}
	return f, nil
}

// MustFormatter is NewFormatter for fixed, known-good locales.
func MustFormatter(locale, symbol string) *Formatter {
	f, err := NewFormatter(locale, symbol)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Formatter) Locale() string { return f.tag.String() }

// Currency formats m with two decimals and locale grouping, e.g.
// "R$ 1.234,56" for pt-BR.
func (f *Formatter) Currency(m core.Money) string {
	n := f.printer.Sprintf("%.2f", m.Units())
	if f.symbol == "" {
		return n
	}
	return f.symbol + " " + n
}

// Date formats d as dd/mm/yyyy, or mm/dd/yyyy outside Portuguese.
func (f *Formatter) Date(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	if f.pt {
		return d.Format("02/01/2006")
	}
	return d.Format("01/02/2006")
}

// MonthLabel turns a YYYY-MM key into a short month and two-digit year
// ("mar. de 25", "Mar 25"). Malformed keys are returned unchanged.
func (f *Formatter) MonthLabel(key string) string {
	y, m, ok := splitMonthKey(key)
	if !ok {
		return key
	}
	yy := fmt.Sprintf("%02d", y%100)
	if f.pt {
		return f.months[m-1] + " de " + yy
	}
	return f.months[m-1] + " " + yy
}

func splitMonthKey(key string) (year, month int, ok bool) {
	ys, ms, found := strings.Cut(key, "-")
	if !found {
		return 0, 0, false
	}
	year, err := strconv.Atoi(ys)
	if err != nil {
		return 0, 0, false
	}
	month, err = strconv.Atoi(ms)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}

// TypeClass is the CSS class that colours an amount by transaction type.
func TypeClass(t core.TxType) string {
	switch t {
	case core.Expense:
		return "text-red"
	case core.Invest:
		return "text-yellow"
	default:
		return "text-green"
	}
}

// TypeLabel is the Portuguese name of a transaction type.
func TypeLabel(t core.TxType) string {
	switch t {
	case core.Income:
		return "Entrada"
	case core.Expense:
		return "Saída"
	case core.Invest:
		return "Investimento"
	}
	return string(t)
}
