package core

import (
	"math"
	"sort"
	"time"
)

// TrendFallbackMonths is the number of empty months GroupByMonth returns
// when there are no transactions at all.
const TrendFallbackMonths = 6

// ComputeTotals sums amounts per type in a single pass. The balance is
// income minus expense; investments stay out of it.
func ComputeTotals(txs []Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Type {
		case Income:
			t.Income.Cents += tx.Amount.Cents
		case Expense:
			t.Expense.Cents += tx.Amount.Cents
		case Invest:
			t.Invest.Cents += tx.Amount.Cents
		}
	}
	t.Balance = Money{Cents: t.Income.Cents - t.Expense.Cents}
	return t
}

// GroupByCategory sums expense and invest amounts per category. Income is
// left out. Categories keep the order in which they were first seen.
func GroupByCategory(txs []Transaction) []CategoryAmount {
	index := make(map[string]int)
	var out []CategoryAmount
	for _, tx := range txs {
		if tx.Type != Expense && tx.Type != Invest {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(out)
			index[tx.Category] = i
			out = append(out, CategoryAmount{Name: tx.Category})
		}
		out[i].Amount.Cents += tx.Amount.Cents
	}
	return out
}

// GroupByMonth buckets transactions by YYYY-MM, sorted ascending. With no
// transactions it returns the TrendFallbackMonths months ending at now's
// month, all zero, so the trend chart always has an axis.
func GroupByMonth(txs []Transaction, now time.Time) []MonthBucket {
	buckets := make(map[string]*MonthBucket)
	var keys []string
	for _, tx := range txs {
		key := tx.Date.MonthKey()
		b, ok := buckets[key]
		if !ok {
			b = &MonthBucket{Key: key}
			buckets[key] = b
			keys = append(keys, key)
		}
		switch tx.Type {
		case Income:
			b.Income.Cents += tx.Amount.Cents
		case Expense:
			b.Expense.Cents += tx.Amount.Cents
		case Invest:
			b.Invest.Cents += tx.Amount.Cents
		}
	}

	if len(keys) == 0 {
		out := make([]MonthBucket, 0, TrendFallbackMonths)
		for i := TrendFallbackMonths - 1; i >= 0; i-- {
			d := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
			out = append(out, MonthBucket{Key: MonthKey(d.Year(), int(d.Month()))})
		}
		return out
	}

	sort.Strings(keys)
	out := make([]MonthBucket, len(keys))
	for i, k := range keys {
		out[i] = *buckets[k]
	}
	return out
}

// SavedForGoal sums invest transactions whose category equals the goal's
// category exactly.
func SavedForGoal(g Goal, txs []Transaction) Money {
	var saved Money
	for _, tx := range txs {
		if tx.Type == Invest && tx.Category == g.Category {
			saved.Cents += tx.Amount.Cents
		}
	}
	return saved
}

// PercentComplete returns round(min(100, saved/target*100)), clamped to
// [0,100]. A non-positive target always yields 0.
func PercentComplete(saved, target Money) int {
	if target.Cents <= 0 {
		return 0
	}
	pct := math.Round(float64(saved.Cents) / float64(target.Cents) * 100)
	switch {
	case pct > 100:
		return 100
	case pct < 0:
		return 0
	}
	return int(pct)
}

// GoalsProgress derives the progress of every goal, in goal order.
func GoalsProgress(goals []Goal, txs []Transaction) []GoalProgress {
	out := make([]GoalProgress, 0, len(goals))
	for _, g := range goals {
		saved := SavedForGoal(g, txs)
		out = append(out, GoalProgress{
			Goal:    g,
			Saved:   saved,
			Percent: PercentComplete(saved, g.Target),
		})
	}
	return out
}

// RecentTransactions returns up to limit transactions, newest date first.
// Transactions on the same date keep their stored order. The input is not
// modified.
func RecentTransactions(txs []Transaction, limit int) []Transaction {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date.Time)
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
