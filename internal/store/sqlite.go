package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS funnel_stages (
    position INTEGER PRIMARY KEY,
    name TEXT UNIQUE NOT NULL,
    value INTEGER NOT NULL,
    color TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    sales INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_products_sales ON products(sales DESC);

CREATE TABLE IF NOT EXISTS categories (
    position INTEGER PRIMARY KEY,
    name TEXT UNIQUE NOT NULL,
    value INTEGER NOT NULL,
    color TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS hourly_activity (
    hour INTEGER PRIMARY KEY CHECK (hour BETWEEN 0 AND 23),
    events INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS daily_activity (
    weekday INTEGER PRIMARY KEY CHECK (weekday BETWEEN 0 AND 6),
    name TEXT NOT NULL,
    events INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS pipeline_stages (
    position INTEGER PRIMARY KEY,
    name TEXT UNIQUE NOT NULL,
    status TEXT NOT NULL
);
`

// datasetQueries maps dataset names to the query used by Dataset.
var datasetQueries = map[string]string{
	DatasetFunnel:     `SELECT position, name, value, color FROM funnel_stages ORDER BY position`,
	DatasetProducts:   `SELECT id, name, sales FROM products ORDER BY sales DESC, id`,
	DatasetCategories: `SELECT position, name, value, color FROM categories ORDER BY position`,
	DatasetHourly:     `SELECT hour, events FROM hourly_activity ORDER BY hour`,
	DatasetDaily:      `SELECT weekday, name, events FROM daily_activity ORDER BY weekday`,
	DatasetPipeline:   `SELECT position, name, status FROM pipeline_stages ORDER BY position`,
}

var datasetTables = map[string]string{
	DatasetFunnel:     "funnel_stages",
	DatasetProducts:   "products",
	DatasetCategories: "categories",
	DatasetHourly:     "hourly_activity",
	DatasetDaily:      "daily_activity",
	DatasetPipeline:   "pipeline_stages",
}

// Open opens the database at dbPath, applies the schema and seeds the fixture
// datasets. Seeding is idempotent.
func Open(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = MemoryPath
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dbPath == MemoryPath {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.Seed(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Seed inserts the fixture rows that are not already present.
func (s *SQLiteStore) Seed(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, f := range funnelFixture {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO funnel_stages (position, name, value, color) VALUES (?, ?, ?, ?)`,
			f.Position, f.Name, f.Value, f.Color,
		); err != nil {
			return fmt.Errorf("failed to seed funnel stage %s: %w", f.Name, err)
		}
	}

	for _, p := range productFixture {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO products (id, name, sales) VALUES (?, ?, ?)`,
			p.ID, p.Name, p.Sales,
		); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.ID, err)
		}
	}

	for _, c := range categoryFixture {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO categories (position, name, value, color) VALUES (?, ?, ?, ?)`,
			c.Position, c.Name, c.Value, c.Color,
		); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", c.Name, err)
		}
	}

	for hour, events := range hourlyFixture {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO hourly_activity (hour, events) VALUES (?, ?)`,
			hour, events,
		); err != nil {
			return fmt.Errorf("failed to seed hour %d: %w", hour, err)
		}
	}

	for _, d := range dailyFixture {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO daily_activity (weekday, name, events) VALUES (?, ?, ?)`,
			d.Weekday, d.Name, d.Events,
		); err != nil {
			return fmt.Errorf("failed to seed day %s: %w", d.Name, err)
		}
	}

	for _, p := range pipelineFixture {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO pipeline_stages (position, name, status) VALUES (?, ?, ?)`,
			p.Position, p.Name, string(p.Status),
		); err != nil {
			return fmt.Errorf("failed to seed pipeline stage %s: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FunnelStages(ctx context.Context) ([]FunnelStage, error) {
	rows, err := s.db.QueryContext(ctx, datasetQueries[DatasetFunnel])
	if err != nil {
		return nil, fmt.Errorf("failed to list funnel stages: %w", err)
	}
	defer rows.Close()

	var stages []FunnelStage
	for rows.Next() {
		var f FunnelStage
		if err := rows.Scan(&f.Position, &f.Name, &f.Value, &f.Color); err != nil {
			return nil, fmt.Errorf("failed to scan funnel stage: %w", err)
		}
		stages = append(stages, f)
	}
	return stages, rows.Err()
}

// TopProducts returns the best sellers first. A limit <= 0 returns all products.
func (s *SQLiteStore) TopProducts(ctx context.Context, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, sales FROM products ORDER BY sales DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Sales); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *SQLiteStore) Categories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, datasetQueries[DatasetCategories])
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.Position, &c.Name, &c.Value, &c.Color); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *SQLiteStore) HourlyActivity(ctx context.Context) ([]HourlyActivity, error) {
	rows, err := s.db.QueryContext(ctx, datasetQueries[DatasetHourly])
	if err != nil {
		return nil, fmt.Errorf("failed to list hourly activity: %w", err)
	}
	defer rows.Close()

	var activity []HourlyActivity
	for rows.Next() {
		var h HourlyActivity
		if err := rows.Scan(&h.Hour, &h.Events); err != nil {
			return nil, fmt.Errorf("failed to scan hourly activity: %w", err)
		}
		activity = append(activity, h)
	}
	return activity, rows.Err()
}

func (s *SQLiteStore) DailyActivity(ctx context.Context) ([]DailyActivity, error) {
	rows, err := s.db.QueryContext(ctx, datasetQueries[DatasetDaily])
	if err != nil {
		return nil, fmt.Errorf("failed to list daily activity: %w", err)
	}
	defer rows.Close()

	var activity []DailyActivity
	for rows.Next() {
		var d DailyActivity
		if err := rows.Scan(&d.Weekday, &d.Name, &d.Events); err != nil {
			return nil, fmt.Errorf("failed to scan daily activity: %w", err)
		}
		activity = append(activity, d)
	}
	return activity, rows.Err()
}

func (s *SQLiteStore) PipelineStages(ctx context.Context) ([]PipelineStage, error) {
	rows, err := s.db.QueryContext(ctx, datasetQueries[DatasetPipeline])
	if err != nil {
		return nil, fmt.Errorf("failed to list pipeline stages: %w", err)
	}
	defer rows.Close()

	var stages []PipelineStage
	for rows.Next() {
		var p PipelineStage
		var status string
		if err := rows.Scan(&p.Position, &p.Name, &status); err != nil {
			return nil, fmt.Errorf("failed to scan pipeline stage: %w", err)
		}
		p.Status = PipelineStatus(status)
		stages = append(stages, p)
	}
	return stages, rows.Err()
}

// Dataset returns the rows of the named dataset keyed by column name.
func (s *SQLiteStore) Dataset(ctx context.Context, name string) ([]map[string]any, error) {
	query, ok := datasetQueries[name]
	if !ok {
		return nil, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset %s: %w", name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var records []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", name, err)
		}

		record := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
			} else {
				record[col] = values[i]
			}
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// RowCounts returns the number of rows per dataset.
func (s *SQLiteStore) RowCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(datasetTables))
	for name, table := range datasetTables {
		var n int
		// Table names come from datasetTables, never from input.
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", name, err)
		}
		counts[name] = n
	}
	return counts, nil
}

// DB returns the underlying database connection for health checks
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}
