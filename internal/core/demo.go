package core

// DemoTransactions is the list seeded into an empty store: three months,
// two incomes, three expenses and two investments.
func DemoTransactions() []Transaction {
	return []Transaction{
		{ID: 1, Date: NewDate(2025, 1, 5), Description: "Salário", Category: "Salário", Type: Income, Amount: Money{Cents: 300000}},
		{ID: 2, Date: NewDate(2025, 1, 12), Description: "Aluguel", Category: "Moradia", Type: Expense, Amount: Money{Cents: 90000}},
		{ID: 3, Date: NewDate(2025, 1, 20), Description: "Transporte", Category: "Transporte", Type: Expense, Amount: Money{Cents: 12000}},
		{ID: 4, Date: NewDate(2025, 2, 3), Description: "Freelance", Category: "Freelance", Type: Income, Amount: Money{Cents: 50000}},
		{ID: 5, Date: NewDate(2025, 2, 15), Description: "Compra investimentos - Viagem", Category: "Meta:Viagem", Type: Invest, Amount: Money{Cents: 20000}},
		{ID: 6, Date: NewDate(2025, 3, 10), Description: "Supermercado", Category: "Alimentação", Type: Expense, Amount: Money{Cents: 35000}},
		{ID: 7, Date: NewDate(2025, 3, 20), Description: "Investimento Mensal", Category: "Investimentos", Type: Invest, Amount: Money{Cents: 30000}},
	}
}
