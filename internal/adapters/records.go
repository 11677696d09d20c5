package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"numus/internal/core"
	"numus/internal/kv"
	applog "numus/internal/log"
)

// Store keys of the three persisted records.
const (
	KeyTransactions = "numus_transactions"
	KeyObjective    = "numus_objective"
	KeyGoals        = "numus_goals"
)

// Keys lists every record key, in a stable order.
var Keys = []string{KeyTransactions, KeyObjective, KeyGoals}

// KeyForName maps the short record names used by the API
// (transactions, objective, goals) to store keys.
func KeyForName(name string) (string, bool) {
	switch name {
	case "transactions":
		return KeyTransactions, true
	case "objective":
		return KeyObjective, true
	case "goals":
		return KeyGoals, true
	}
	return "", false
}

// ChangePublisher is notified after every successful save.
type ChangePublisher interface {
	PublishRecordChanged(ctx context.Context, key string, version int64) error
}

type versioned interface {
	Version(ctx context.Context, key string) (int64, error)
}

// RecordStore loads and saves the dashboard records as JSON over a
// kv.Store. Loads never fail on malformed data: anything that does not
// decode reads as the empty default. Store I/O errors are returned.
type RecordStore struct {
	store     kv.Store
	publisher ChangePublisher
	now       func() time.Time
	logger    *applog.Logger

	// serialises load-append-save sequences within this process
	mu sync.Mutex
}

type Option func(*RecordStore)

func WithPublisher(p ChangePublisher) Option {
	return func(r *RecordStore) { r.publisher = p }
}

func WithClock(now func() time.Time) Option {
	return func(r *RecordStore) { r.now = now }
}

func WithLogger(l *applog.Logger) Option {
	return func(r *RecordStore) { r.logger = l }
}

func NewRecordStore(store kv.Store, opts ...Option) *RecordStore {
	r := &RecordStore{store: store, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentRecords)
	}
	return r
}

// Store exposes the underlying key/value store.
func (r *RecordStore) Store() kv.Store { return r.store }

func (r *RecordStore) LoadTransactions(ctx context.Context) ([]core.Transaction, error) {
	var txs []core.Transaction
	if err := r.loadJSON(ctx, KeyTransactions, &txs); err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	return txs, nil
}

func (r *RecordStore) SaveTransactions(ctx context.Context, txs []core.Transaction) error {
	if txs == nil {
		txs = []core.Transaction{}
	}
	return r.saveJSON(ctx, KeyTransactions, txs)
}

func (r *RecordStore) LoadGoals(ctx context.Context) ([]core.Goal, error) {
	var goals []core.Goal
	if err := r.loadJSON(ctx, KeyGoals, &goals); err != nil {
		return nil, err
	}
	if goals == nil {
		goals = []core.Goal{}
	}
	return goals, nil
}

func (r *RecordStore) SaveGoals(ctx context.Context, goals []core.Goal) error {
	if goals == nil {
		goals = []core.Goal{}
	}
	return r.saveJSON(ctx, KeyGoals, goals)
}

// LoadObjective returns the stored objective text verbatim, or "".
func (r *RecordStore) LoadObjective(ctx context.Context) (string, error) {
	v, _, err := r.store.Get(ctx, KeyObjective)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", KeyObjective, err)
	}
	return v, nil
}

// SaveObjective stores text as-is, replacing the previous objective.
func (r *RecordStore) SaveObjective(ctx context.Context, text string) error {
	return r.set(ctx, KeyObjective, text)
}

// Bootstrap seeds the demo transactions when no transaction record exists
// at all. A record that exists but does not decode is left alone.
func (r *RecordStore) Bootstrap(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok, err := r.store.Get(ctx, KeyTransactions)
	if err != nil {
		return false, fmt.Errorf("bootstrap: %w", err)
	}
	if ok {
		return false, nil
	}
	if err := r.SaveTransactions(ctx, core.DemoTransactions()); err != nil {
		return false, fmt.Errorf("bootstrap: %w", err)
	}
	r.logger.InfoContext(ctx, "Seeded demo transactions",
		applog.FieldOperation, applog.OpBootstrap,
		applog.FieldCount, len(core.DemoTransactions()))
	return true, nil
}

// AddTransaction appends tx to the stored list. A zero id is replaced by
// the current time in milliseconds.
func (r *RecordStore) AddTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if tx.ID == 0 {
		tx.ID = r.now().UnixMilli()
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	txs, err := r.LoadTransactions(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := r.SaveTransactions(ctx, append(txs, tx)); err != nil {
		return core.Transaction{}, err
	}
	r.logger.InfoContext(ctx, "Transaction added",
		applog.FieldOperation, applog.OpAdd,
		applog.FieldTxID, tx.ID,
		applog.FieldTxType, string(tx.Type),
		applog.FieldCategory, tx.Category,
		applog.FieldAmountCents, tx.Amount.Cents)
	return tx, nil
}

// AddGoal appends g to the stored goal list.
func (r *RecordStore) AddGoal(ctx context.Context, g core.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	goals, err := r.LoadGoals(ctx)
	if err != nil {
		return err
	}
	return r.SaveGoals(ctx, append(goals, g))
}

func (r *RecordStore) loadJSON(ctx context.Context, key string, dst any) error {
	raw, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if !ok || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		r.logger.DebugContext(ctx, "Discarding undecodable record",
			applog.FieldRecordKey, key,
			applog.FieldError, err)
		// leave dst at its zero value
		switch d := dst.(type) {
		case *[]core.Transaction:
			*d = nil
		case *[]core.Goal:
			*d = nil
		}
	}
	return nil
}

func (r *RecordStore) saveJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return r.set(ctx, key, string(b))
}

func (r *RecordStore) set(ctx context.Context, key, value string) error {
	if err := r.store.Set(ctx, key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	r.publish(ctx, key)
	return nil
}

// publish is best effort: the record is already stored.
func (r *RecordStore) publish(ctx context.Context, key string) {
	if r.publisher == nil {
		return
	}
	var version int64
	if v, ok := r.store.(versioned); ok {
		if n, err := v.Version(ctx, key); err == nil {
			version = n
		}
	}
	if err := r.publisher.PublishRecordChanged(ctx, key, version); err != nil {
		r.logger.WarnContext(ctx, "Failed to publish record change",
			applog.FieldRecordKey, key,
			applog.FieldError, err)
	}
}
