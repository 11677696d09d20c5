package core

// Totals holds the four headline amounts of the dashboard.
type Totals struct {
	Income  Money `json:"income"`
	Expense Money `json:"expense"`
	Invest  Money `json:"invest"`
	Balance Money `json:"balance"`
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// MonthBucket is the per-type activity of one YYYY-MM month.
type MonthBucket struct {
	Key     string `json:"month"`
	Income  Money  `json:"income"`
	Expense Money  `json:"expense"`
	Invest  Money  `json:"invest"`
}

// GoalProgress pairs a goal with its derived saved amount.
type GoalProgress struct {
	Goal    Goal  `json:"goal"`
	Saved   Money `json:"saved"`
	Percent int   `json:"percent"`
}

// LinkSuggestion flags an investment category that nearly, but not exactly,
// matches a goal category.
type LinkSuggestion struct {
	Category string
	Goal     Goal
	Distance int
	Amount   Money
}
