package core

import "testing"

func TestSuggestGoalLinks(t *testing.T) {
	goals := []Goal{
		{Name: "Viagem", Category: "Meta:Viagem"},
		{Name: "Carro", Category: "Meta:Carro"},
	}
	d := NewDate(2025, 5, 1)
	txs := []Transaction{
		tx(d, Invest, "Meta:Viagem", 100),
		tx(d, Invest, "Meta:Viagen", 200),
		tx(d, Invest, "meta:carro", 300),
		tx(d, Invest, "Meta:Viagen", 50),
		tx(d, Expense, "Meta:Viage", 999),
		tx(d, Invest, "Investimentos", 400),
	}

	got := SuggestGoalLinks(goals, txs)
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %+v", got)
	}
	if got[0].Category != "Meta:Viagen" || got[0].Goal.Name != "Viagem" || got[0].Distance != 1 || got[0].Amount.Cents != 250 {
		t.Fatalf("unexpected first suggestion: %+v", got[0])
	}
	if got[1].Category != "meta:carro" || got[1].Goal.Name != "Carro" || got[1].Distance != 2 || got[1].Amount.Cents != 300 {
		t.Fatalf("unexpected second suggestion: %+v", got[1])
	}
}

func TestSuggestGoalLinksWithoutGoals(t *testing.T) {
	if got := SuggestGoalLinks(nil, DemoTransactions()); got != nil {
		t.Fatalf("expected no suggestions, got %+v", got)
	}
}
