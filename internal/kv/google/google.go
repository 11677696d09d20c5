package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"numus/internal/cache"
	"numus/internal/kv"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

var (
	_ kv.Store         = (*Client)(nil)
	_ kv.HealthChecker = (*Client)(nil)
)

// valuesAPI is the slice of the Sheets values API the store needs.
type valuesAPI interface {
	Get(ctx context.Context, rng string) ([][]any, error)
	Update(ctx context.Context, rng string, rows [][]any) error
}

type sheetsValues struct {
	svc           *gsheet.Service
	spreadsheetID string
}

func (s *sheetsValues) Get(ctx context.Context, rng string) ([][]any, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (s *sheetsValues) Update(ctx context.Context, rng string, rows [][]any) error {
	// RAW keeps JSON payloads verbatim instead of letting Sheets coerce them.
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng, &gsheet.ValueRange{Values: rows}).
		ValueInputOption("RAW").Context(ctx).Do()
	return err
}

// Client stores key/value pairs in a sheet: the key in column A, the
// value in column B, one pair per row.
type Client struct {
	api   valuesAPI
	sheet string

	mu    sync.Mutex // serialises read-modify-write in Set
	table *cache.LRUCache[*sheetTable]
}

type row struct {
	index int // 1-based sheet row
	value string
}

type sheetTable struct {
	rows map[string]row
	next int
}

const tableKey = "table"

// Options configures a Client.
type Options struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
	CacheTTL           time.Duration
}

// New creates a Sheets-backed store authenticated with a service account.
func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx, opts.ServiceAccountJSON, opts.ServiceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return newClient(&sheetsValues{svc: svc, spreadsheetID: opts.SpreadsheetID}, opts.SheetName, opts.CacheTTL), nil
}

func newClient(api valuesAPI, sheet string, ttl time.Duration) *Client {
	if sheet == "" {
		sheet = "Numus"
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Client{
		api:   api,
		sheet: sheet,
		table: cache.NewLRUCache[*sheetTable](1, ttl),
	}
}

// newSheetsService authenticates with inline JSON, a credentials file, or
// GOOGLE_APPLICATION_CREDENTIALS, in that order.
func newSheetsService(ctx context.Context, credentialsJSON, credentialsFile string) (*gsheet.Service, error) {
	credentialsJSON = strings.TrimSpace(credentialsJSON)
	credentialsFile = strings.TrimSpace(credentialsFile)
	if credentialsJSON == "" && credentialsFile == "" {
		credentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var creds []byte
	switch {
	case credentialsJSON != "":
		creds = []byte(credentialsJSON)
	case credentialsFile != "":
		b, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		creds = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created", "credentials_size", len(creds))
	return svc, nil
}

func (c *Client) load(ctx context.Context) (*sheetTable, error) {
	if t, ok := c.table.Get(tableKey); ok {
		return t, nil
	}
	rows, err := c.api.Get(ctx, fmt.Sprintf("%s!A:B", c.sheet))
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", c.sheet, err)
	}
	t := &sheetTable{rows: make(map[string]row, len(rows)), next: len(rows) + 1}
	for i, r := range rows {
		if len(r) == 0 {
			continue
		}
		key := strings.TrimSpace(fmt.Sprint(r[0]))
		if key == "" {
			continue
		}
		var value string
		if len(r) > 1 {
			value = fmt.Sprint(r[1])
		}
		if _, dup := t.rows[key]; !dup {
			t.rows[key] = row{index: i + 1, value: value}
		}
	}
	c.table.Set(tableKey, t)
	return t, nil
}

func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	t, err := c.load(ctx)
	if err != nil {
		return "", false, err
	}
	r, ok := t.rows[key]
	return r.value, ok, nil
}

func (c *Client) Set(ctx context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Row positions must be current before writing.
	c.table.Delete(tableKey)
	t, err := c.load(ctx)
	if err != nil {
		return err
	}

	idx := t.next
	if r, ok := t.rows[key]; ok {
		idx = r.index
	}

	rng := fmt.Sprintf("%s!A%d:B%d", c.sheet, idx, idx)
	if err := c.api.Update(ctx, rng, [][]any{{key, value}}); err != nil {
		return fmt.Errorf("write %s to sheet %s: %w", key, c.sheet, err)
	}
	c.table.Delete(tableKey)
	slog.DebugContext(ctx, "Record written to Google Sheets", "key", key, "range", rng)
	return nil
}

// HealthCheck reads the sheet bypassing the cache.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.api.Get(ctx, fmt.Sprintf("%s!A1:A1", c.sheet))
	return err
}

// CleanExpired drops the cached sheet table once its TTL has passed.
func (c *Client) CleanExpired() int {
	return c.table.CleanExpired()
}
