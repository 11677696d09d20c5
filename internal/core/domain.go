package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
	Invest  TxType = "invest"
)

// GoalCategoryPrefix is prepended to a goal name when no category is given.
const GoalCategoryPrefix = "Meta:"

type (
	TxType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          int64  `json:"id"`
		Date        Date   `json:"date"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Type        TxType `json:"type"`
		Amount      Money  `json:"amount"`
	}

	Goal struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Target   Money  `json:"target"`
		Category string `json:"category"`
		// Saved is written as zero at creation and never read back.
		// Progress always comes from SavedForGoal over the transaction list.
		Saved Money `json:"saved"`
	}
)

var (
	ErrInvalidDate             = errors.New("invalid date")
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrInvalidType             = errors.New("invalid transaction type")
	ErrEmptyGoalName           = errors.New("empty goal name")
	ErrNonPositiveContribution = errors.New("contribution must be positive")
)

// Valid reports whether t is one of the three known transaction kinds.
func (t TxType) Valid() bool {
	switch t {
	case Income, Expense, Invest:
		return true
	default:
		return false
	}
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			return DateOf(ts), nil
		}
		s = s[:10]
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(time.DateOnly)
}

// MonthKey returns the YYYY-MM bucket the date falls in.
func (d Date) MonthKey() string {
	return MonthKey(d.Year(), int(d.Month()))
}

// MonthKey formats a zero-padded year-month key.
func MonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("date %q: %w", s, err)
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// NewGoal builds a goal from modal input. The category defaults to
// "Meta:<name>" and the id is the creation time in milliseconds.
func NewGoal(name string, target Money, category string, now time.Time) (Goal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Goal{}, ErrEmptyGoalName
	}
	if target.Cents < 0 {
		target = Money{}
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = GoalCategoryPrefix + name
	}
	return Goal{
		ID:       now.UnixMilli(),
		Name:     name,
		Target:   target,
		Category: category,
	}, nil
}

// ContributionFor builds the investment transaction that funds goal g.
func ContributionFor(g Goal, amount Money, now time.Time) (Transaction, error) {
	if amount.Cents <= 0 {
		return Transaction{}, ErrNonPositiveContribution
	}
	return Transaction{
		ID:          now.UnixMilli(),
		Date:        DateOf(now),
		Description: "Aporte para " + strings.TrimPrefix(g.Category, GoalCategoryPrefix),
		Category:    g.Category,
		Type:        Invest,
		Amount:      amount,
	}, nil
}
