package core

import (
	"sort"
	"strings"
)

// Report sort orders.
const (
	SortDateAsc    = "date"
	SortDateDesc   = "-date"
	SortAmountAsc  = "amount"
	SortAmountDesc = "-amount"
)

// ReportFilter narrows the transaction list for the reports view.
// Zero values disable the corresponding filter.
type ReportFilter struct {
	Category string
	Type     TxType
	From     Date
	To       Date
	Search   string
	Sort     string
}

// FilterTransactions applies f and returns a new, sorted slice. Date bounds
// are inclusive; search is a case-insensitive substring match on the
// description. Unknown sort orders fall back to newest first.
func FilterTransactions(txs []Transaction, f ReportFilter) []Transaction {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Category != "" && tx.Category != f.Category {
			continue
		}
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if !f.From.IsZero() && tx.Date.Before(f.From.Time) {
			continue
		}
		if !f.To.IsZero() && tx.Date.After(f.To.Time) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(tx.Description), search) {
			continue
		}
		out = append(out, tx)
	}

	var less func(a, b Transaction) bool
	switch f.Sort {
	case SortDateAsc:
		less = func(a, b Transaction) bool { return a.Date.Before(b.Date.Time) }
	case SortAmountAsc:
		less = func(a, b Transaction) bool { return a.Amount.Cents < b.Amount.Cents }
	case SortAmountDesc:
		less = func(a, b Transaction) bool { return a.Amount.Cents > b.Amount.Cents }
	default:
		less = func(a, b Transaction) bool { return a.Date.After(b.Date.Time) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Categories lists the distinct categories in first-seen order.
func Categories(txs []Transaction) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tx := range txs {
		if _, ok := seen[tx.Category]; ok {
			continue
		}
		seen[tx.Category] = struct{}{}
		out = append(out, tx.Category)
	}
	return out
}
