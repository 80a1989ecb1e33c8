package store

type FunnelStage struct {
	Position int
	Name     string
	Value    int64
	Color    string
}

type Product struct {
	ID    string
	Name  string
	Sales int64
}

type Category struct {
	Position int
	Name     string
	Value    int64
	Color    string
}

type HourlyActivity struct {
	Hour   int // 0-23
	Events int64
}

type DailyActivity struct {
	Weekday int // 0 = Monday
	Name    string
	Events  int64
}

type PipelineStatus string

const (
	PipelineActive  PipelineStatus = "active"
	PipelineRunning PipelineStatus = "running"
)

type PipelineStage struct {
	Position int
	Name     string
	Status   PipelineStatus
}

// Dataset names accepted by Dataset.
const (
	DatasetFunnel     = "funnel"
	DatasetProducts   = "products"
	DatasetCategories = "categories"
	DatasetHourly     = "hourly"
	DatasetDaily      = "daily"
	DatasetPipeline   = "pipeline"
)

// DatasetNames lists every dataset in display order.
var DatasetNames = []string{
	DatasetFunnel,
	DatasetProducts,
	DatasetCategories,
	DatasetHourly,
	DatasetDaily,
	DatasetPipeline,
}
