package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2025-01-05", "2025-01-05", true},
		{"2025-03-20T10:15:00Z", "2025-03-20", true},
		{"2025-03-20T10:15:00.000Z", "2025-03-20", true},
		{"2025-13-01", "", false},
		{"", "", false},
		{"yesterday", "", false},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil || d.String() != tc.want {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.want, d, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMonthKeyIsZeroPadded(t *testing.T) {
	if got := NewDate(2025, 3, 9).MonthKey(); got != "2025-03" {
		t.Fatalf("expected 2025-03, got %s", got)
	}
	if got := NewDate(987, 11, 1).MonthKey(); got != "0987-11" {
		t.Fatalf("expected 0987-11, got %s", got)
	}
}

func TestTransactionJSONRoundTrip(t *testing.T) {
	in := Transaction{ID: 5, Date: NewDate(2025, 2, 15), Description: "d", Category: "Meta:Viagem", Type: Invest, Amount: Money{Cents: 20000}}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":5,"date":"2025-02-15","description":"d","category":"Meta:Viagem","type":"invest","amount":200}`
	if string(b) != want {
		t.Fatalf("unexpected encoding:\n got %s\nwant %s", b, want)
	}
	var out Transaction
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.ID != in.ID || !out.Date.Equal(in.Date.Time) || out.Description != in.Description ||
		out.Category != in.Category || out.Type != in.Type || out.Amount != in.Amount {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{Date: NewDate(2025, 1, 1), Type: Expense, Amount: Money{Cents: 100}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		tx   Transaction
		want error
	}{
		{Transaction{Type: Expense, Amount: Money{Cents: 1}}, ErrInvalidDate},
		{Transaction{Date: NewDate(2025, 1, 1), Type: "transfer", Amount: Money{Cents: 1}}, ErrInvalidType},
		{Transaction{Date: NewDate(2025, 1, 1), Type: Income, Amount: Money{Cents: -1}}, ErrInvalidAmount},
	}
	for i, tc := range bads {
		if err := tc.tx.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestNewGoal(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	g, err := NewGoal("  Viagem ", Money{Cents: 50000}, "", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Name != "Viagem" || g.Category != "Meta:Viagem" || g.ID != now.UnixMilli() || g.Saved.Cents != 0 {
		t.Fatalf("unexpected goal: %+v", g)
	}

	g, err = NewGoal("Carro", Money{}, " Poupança ", now)
	if err != nil || g.Category != "Poupança" {
		t.Fatalf("expected explicit category, got %+v (err=%v)", g, err)
	}

	if _, err := NewGoal("   ", Money{Cents: 1}, "", now); !errors.Is(err, ErrEmptyGoalName) {
		t.Fatalf("expected ErrEmptyGoalName, got %v", err)
	}
}

func TestContributionFor(t *testing.T) {
	now := time.Date(2025, 6, 7, 18, 30, 0, 0, time.UTC)
	g := Goal{Name: "Viagem", Category: "Meta:Viagem"}

	tx, err := ContributionFor(g, Money{Cents: 2500}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Type != Invest || tx.Category != "Meta:Viagem" || tx.Description != "Aporte para Viagem" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
	if tx.Date.String() != "2025-06-07" || tx.ID != now.UnixMilli() {
		t.Fatalf("unexpected date/id: %s %d", tx.Date, tx.ID)
	}

	custom := Goal{Name: "Casa", Category: "Reserva"}
	tx, _ = ContributionFor(custom, Money{Cents: 1}, now)
	if tx.Description != "Aporte para Reserva" {
		t.Fatalf("unexpected description: %q", tx.Description)
	}

	for _, cents := range []int64{0, -100} {
		if _, err := ContributionFor(g, Money{Cents: cents}, now); !errors.Is(err, ErrNonPositiveContribution) {
			t.Fatalf("amount %d: expected ErrNonPositiveContribution, got %v", cents, err)
		}
	}
}
