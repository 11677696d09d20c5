package core

import (
	"sort"
	"testing"
	"time"
)

func tx(date Date, typ TxType, category string, cents int64) Transaction {
	return Transaction{Date: date, Type: typ, Category: category, Amount: Money{Cents: cents}}
}

func TestComputeTotals(t *testing.T) {
	d := NewDate(2025, 1, 1)
	txs := []Transaction{
		tx(d, Income, "Salário", 300000),
		tx(d, Expense, "Moradia", 90000),
		tx(d, Expense, "Transporte", 12000),
		tx(d, Invest, "Meta:Viagem", 20000),
	}
	got := ComputeTotals(txs)
	want := Totals{
		Income:  Money{Cents: 300000},
		Expense: Money{Cents: 102000},
		Invest:  Money{Cents: 20000},
		Balance: Money{Cents: 198000},
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestComputeTotalsBalanceExcludesInvest(t *testing.T) {
	sets := [][]Transaction{
		nil,
		DemoTransactions(),
		{tx(NewDate(2025, 1, 1), Invest, "x", 99999)},
		{tx(NewDate(2025, 1, 1), Expense, "x", 500), tx(NewDate(2025, 1, 1), "unknown", "x", 700)},
	}
	for i, txs := range sets {
		got := ComputeTotals(txs)
		if got.Balance.Cents != got.Income.Cents-got.Expense.Cents {
			t.Fatalf("set %d: balance %d != income %d - expense %d", i, got.Balance.Cents, got.Income.Cents, got.Expense.Cents)
		}
	}
}

func TestGroupByCategory(t *testing.T) {
	got := GroupByCategory(DemoTransactions())
	want := []CategoryAmount{
		{Name: "Moradia", Amount: Money{Cents: 90000}},
		{Name: "Transporte", Amount: Money{Cents: 12000}},
		{Name: "Meta:Viagem", Amount: Money{Cents: 20000}},
		{Name: "Alimentação", Amount: Money{Cents: 35000}},
		{Name: "Investimentos", Amount: Money{Cents: 30000}},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("category %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestGroupByCategorySumMatchesExpenseAndInvest(t *testing.T) {
	d := NewDate(2025, 4, 2)
	txs := append(DemoTransactions(),
		tx(d, Expense, "Moradia", 1),
		tx(d, Invest, "Moradia", 2),
		tx(d, Income, "Moradia", 1000),
	)
	var grouped, direct int64
	for _, c := range GroupByCategory(txs) {
		grouped += c.Amount.Cents
	}
	for _, tx := range txs {
		if tx.Type == Expense || tx.Type == Invest {
			direct += tx.Amount.Cents
		}
	}
	if grouped != direct {
		t.Fatalf("grouped sum %d != expense+invest sum %d", grouped, direct)
	}
}

func TestGroupByMonth(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	txs := []Transaction{
		tx(NewDate(2025, 3, 10), Expense, "a", 100),
		tx(NewDate(2024, 12, 31), Income, "b", 200),
		tx(NewDate(2025, 1, 5), Invest, "c", 300),
		tx(NewDate(2025, 3, 1), Income, "d", 400),
	}
	got := GroupByMonth(txs, now)
	keys := make([]string, len(got))
	for i, b := range got {
		keys[i] = b.Key
	}
	want := []string{"2024-12", "2025-01", "2025-03"}
	if len(keys) != len(want) {
		t.Fatalf("expected keys %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected keys %v, got %v", want, keys)
		}
	}
	if !sort.StringsAreSorted(keys) {
		t.Fatalf("keys not sorted: %v", keys)
	}
	march := got[2]
	if march.Income.Cents != 400 || march.Expense.Cents != 100 || march.Invest.Cents != 0 {
		t.Fatalf("unexpected march bucket: %+v", march)
	}
}

func TestGroupByMonthKeysAreChronological(t *testing.T) {
	var txs []Transaction
	start := time.Date(1999, 11, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		d := start.AddDate(0, (i*7)%30, 0)
		txs = append(txs, tx(DateOf(d), Expense, "x", 1))
	}
	buckets := GroupByMonth(txs, time.Now())
	for i := 1; i < len(buckets); i++ {
		prev, _ := time.Parse("2006-01", buckets[i-1].Key)
		cur, _ := time.Parse("2006-01", buckets[i].Key)
		if !prev.Before(cur) {
			t.Fatalf("bucket %s not before %s", buckets[i-1].Key, buckets[i].Key)
		}
	}
}

func TestGroupByMonthEmptyFallsBackToSixMonths(t *testing.T) {
	now := time.Date(2025, 2, 14, 9, 0, 0, 0, time.UTC)
	got := GroupByMonth(nil, now)
	want := []string{"2024-09", "2024-10", "2024-11", "2024-12", "2025-01", "2025-02"}
	if len(got) != len(want) {
		t.Fatalf("expected %d months, got %d", len(want), len(got))
	}
	for i, b := range got {
		if b.Key != want[i] {
			t.Fatalf("month %d: expected %s, got %s", i, want[i], b.Key)
		}
		if b.Income.Cents != 0 || b.Expense.Cents != 0 || b.Invest.Cents != 0 {
			t.Fatalf("month %s should be zero: %+v", b.Key, b)
		}
	}
}

func TestSavedForGoalAndPercent(t *testing.T) {
	goal := Goal{Name: "Viagem", Target: Money{Cents: 50000}, Category: "Meta:Viagem"}
	txs := []Transaction{
		tx(NewDate(2025, 2, 15), Invest, "Meta:Viagem", 20000),
		tx(NewDate(2025, 2, 16), Expense, "Meta:Viagem", 5000),
		tx(NewDate(2025, 2, 17), Invest, "meta:viagem", 7000),
	}
	saved := SavedForGoal(goal, txs)
	if saved.Cents != 20000 {
		t.Fatalf("expected 20000 saved, got %d", saved.Cents)
	}
	if pct := PercentComplete(saved, goal.Target); pct != 40 {
		t.Fatalf("expected 40%%, got %d", pct)
	}
	if got := SavedForGoal(goal, nil); got.Cents != 0 {
		t.Fatalf("expected 0 saved without transactions, got %d", got.Cents)
	}
}

func TestPercentComplete(t *testing.T) {
	cases := []struct {
		saved, target int64
		want          int
	}{
		{0, 0, 0},
		{100000, 0, 0},
		{50, 100, 50},
		{1, 3, 33},
		{2, 3, 67},
		{1, 200, 1}, // 0.5 rounds up
		{300, 100, 100},
		{-50, 100, 0},
		{100, -100, 0},
	}
	for _, tc := range cases {
		got := PercentComplete(Money{Cents: tc.saved}, Money{Cents: tc.target})
		if got != tc.want {
			t.Errorf("PercentComplete(%d, %d) = %d, want %d", tc.saved, tc.target, got, tc.want)
		}
		if got < 0 || got > 100 {
			t.Errorf("PercentComplete(%d, %d) = %d out of range", tc.saved, tc.target, got)
		}
	}
}

func TestGoalsProgress(t *testing.T) {
	goals := []Goal{
		{Name: "Viagem", Target: Money{Cents: 50000}, Category: "Meta:Viagem", Saved: Money{Cents: 99999}},
		{Name: "Casa", Target: Money{}, Category: "Meta:Casa"},
	}
	got := GoalsProgress(goals, DemoTransactions())
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Saved.Cents != 20000 || got[0].Percent != 40 {
		t.Fatalf("stored saved must be ignored: %+v", got[0])
	}
	if got[1].Saved.Cents != 0 || got[1].Percent != 0 {
		t.Fatalf("unexpected progress for unfunded goal: %+v", got[1])
	}
}

func TestRecentTransactions(t *testing.T) {
	txs := DemoTransactions()
	got := RecentTransactions(txs, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3, got %d", len(got))
	}
	wantIDs := []int64{7, 6, 5}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Fatalf("position %d: expected id %d, got %d", i, id, got[i].ID)
		}
	}
	if txs[0].ID != 1 {
		t.Fatalf("input slice must not be reordered")
	}

	sameDay := []Transaction{
		{ID: 1, Date: NewDate(2025, 1, 1)},
		{ID: 2, Date: NewDate(2025, 1, 2)},
		{ID: 3, Date: NewDate(2025, 1, 2)},
	}
	got = RecentTransactions(sameDay, 10)
	if got[0].ID != 2 || got[1].ID != 3 || got[2].ID != 1 {
		t.Fatalf("expected stable order [2 3 1], got %v", []int64{got[0].ID, got[1].ID, got[2].ID})
	}
}
