package store

import "context"

// Store defines the read operations over the fixture datasets
type Store interface {
	FunnelStages(ctx context.Context) ([]FunnelStage, error)
	TopProducts(ctx context.Context, limit int) ([]Product, error)
	Categories(ctx context.Context) ([]Category, error)
	HourlyActivity(ctx context.Context) ([]HourlyActivity, error)
	DailyActivity(ctx context.Context) ([]DailyActivity, error)
	PipelineStages(ctx context.Context) ([]PipelineStage, error)

	// Dataset returns the rows of a named dataset as column-keyed records
	Dataset(ctx context.Context, name string) ([]map[string]any, error)
	RowCounts(ctx context.Context) (map[string]int, error)

	// Lifecycle
	Close() error
}
