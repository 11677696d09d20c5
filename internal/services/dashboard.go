package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"numus/internal/adapters"
	"numus/internal/core"
)

var ErrGoalNotFound = errors.New("goal not found")

// DefaultRecentLimit is the number of rows in the recent-transactions table.
const DefaultRecentLimit = 7

// Snapshot is everything the dashboard renders, recomputed from scratch
// on every refresh.
type Snapshot struct {
	Objective    string
	Transactions []core.Transaction
	Totals       core.Totals
	Recent       []core.Transaction
	Categories   []core.CategoryAmount
	Months       []core.MonthBucket
	Goals        []core.GoalProgress
	LinkHints    []core.LinkSuggestion
	GeneratedAt  time.Time
}

// Dashboard runs the load, aggregate and mutate cycle over a RecordStore.
type Dashboard struct {
	records     *adapters.RecordStore
	now         func() time.Time
	recentLimit int
}

func NewDashboard(records *adapters.RecordStore, now func() time.Time, recentLimit int) *Dashboard {
	if now == nil {
		now = time.Now
	}
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	return &Dashboard{records: records, now: now, recentLimit: recentLimit}
}

func (d *Dashboard) Records() *adapters.RecordStore { return d.records }

// Now returns the dashboard clock's current time.
func (d *Dashboard) Now() time.Time { return d.now() }

// Snapshot reloads the three records and recomputes every view.
func (d *Dashboard) Snapshot(ctx context.Context) (Snapshot, error) {
	var (
		txs       []core.Transaction
		goals     []core.Goal
		objective string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		txs, err = d.records.LoadTransactions(gctx)
		return err
	})
	g.Go(func() (err error) {
		goals, err = d.records.LoadGoals(gctx)
		return err
	})
	g.Go(func() (err error) {
		objective, err = d.records.LoadObjective(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("load records: %w", err)
	}

	now := d.now()
	return Snapshot{
		Objective:    objective,
		Transactions: txs,
		Totals:       core.ComputeTotals(txs),
		Recent:       core.RecentTransactions(txs, d.recentLimit),
		Categories:   core.GroupByCategory(txs),
		Months:       core.GroupByMonth(txs, now),
		Goals:        core.GoalsProgress(goals, txs),
		LinkHints:    core.SuggestGoalLinks(goals, txs),
		GeneratedAt:  now,
	}, nil
}

// SaveObjective persists the trimmed objective text and returns it.
func (d *Dashboard) SaveObjective(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if err := d.records.SaveObjective(ctx, text); err != nil {
		return "", err
	}
	return text, nil
}

// CreateGoal validates modal input and appends the goal. targetInput
// that does not parse as a positive amount becomes a zero target.
func (d *Dashboard) CreateGoal(ctx context.Context, name, targetInput, category string) (core.Goal, error) {
	goal, err := core.NewGoal(name, core.ParseTarget(targetInput), category, d.now())
	if err != nil {
		return core.Goal{}, err
	}
	if err := d.records.AddGoal(ctx, goal); err != nil {
		return core.Goal{}, err
	}
	return goal, nil
}

// ContributeToGoal records an investment towards goal goalID. Input that
// is empty, unparsable or not positive is discarded: it returns ok=false
// and no error.
func (d *Dashboard) ContributeToGoal(ctx context.Context, goalID int64, amountInput string) (core.Transaction, bool, error) {
	cents, err := core.ParseDecimalToCents(amountInput)
	if err != nil {
		return core.Transaction{}, false, nil
	}

	goals, err := d.records.LoadGoals(ctx)
	if err != nil {
		return core.Transaction{}, false, err
	}
	var goal *core.Goal
	for i := range goals {
		if goals[i].ID == goalID {
			goal = &goals[i]
			break
		}
	}
	if goal == nil {
		return core.Transaction{}, false, fmt.Errorf("goal %d: %w", goalID, ErrGoalNotFound)
	}

	tx, err := core.ContributionFor(*goal, core.Money{Cents: cents}, d.now())
	if err != nil {
		return core.Transaction{}, false, nil
	}
	tx, err = d.records.AddTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, false, err
	}
	return tx, true, nil
}

// AddTransaction is the external entry point for new transactions.
func (d *Dashboard) AddTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	return d.records.AddTransaction(ctx, tx)
}

// Report is the filtered transaction listing with the category choices
// for its filter form.
type Report struct {
	Filter       core.ReportFilter
	Transactions []core.Transaction
	Categories   []string
	Totals       core.Totals
}

func (d *Dashboard) Report(ctx context.Context, f core.ReportFilter) (Report, error) {
	txs, err := d.records.LoadTransactions(ctx)
	if err != nil {
		return Report{}, err
	}
	rows := core.FilterTransactions(txs, f)
	return Report{
		Filter:       f,
		Transactions: rows,
		Categories:   core.Categories(txs),
		Totals:       core.ComputeTotals(rows),
	}, nil
}
