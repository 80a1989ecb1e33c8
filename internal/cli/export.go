package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ecomdash/ecomdash/internal/store"
)

var exportFormats = []string{"csv", "json", "yaml"}

func newExportCmd(a *app) *cobra.Command {
	var exportFormat string

	cmd := &cobra.Command{
		Use:   "export <dataset|all>",
		Short: "Export fixture datasets",
		Long: `Export a dataset in CSV, JSON or YAML format.

Datasets: ` + strings.Join(store.DatasetNames, ", ") + `

Examples:
  ecomdash export products --format csv > products.csv
  ecomdash export all --format yaml > datasets.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			if !slices.Contains(exportFormats, exportFormat) {
				return fmt.Errorf("invalid format: must be one of %s", strings.Join(exportFormats, ", "))
			}
			if name == "all" && exportFormat == "csv" {
				return fmt.Errorf("csv export needs a single dataset")
			}

			return a.withStore(func(s *store.SQLiteStore) error {
				names := []string{name}
				if name == "all" {
					names = store.DatasetNames
				}

				datasets, err := loadDatasets(cmd.Context(), s, names)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				switch exportFormat {
				case "csv":
					return exportCSV(out, datasets[name])
				case "json":
					return exportJSON(out, datasets)
				default:
					return exportYAML(out, datasets)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "output format (csv, json or yaml)")
	return cmd
}

func loadDatasets(ctx context.Context, s store.Store, names []string) (map[string][]map[string]any, error) {
	datasets := make(map[string][]map[string]any, len(names))
	for _, name := range names {
		rows, err := s.Dataset(ctx, name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("dataset '%s' not found (want one of %s or all)", name, strings.Join(store.DatasetNames, ", "))
			}
			return nil, fmt.Errorf("failed to load dataset %s: %w", name, err)
		}
		datasets[name] = rows
	}
	return datasets, nil
}

func exportCSV(out io.Writer, rows []map[string]any) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if len(rows) == 0 {
		return nil
	}

	// Write header
	columns := slices.Sorted(maps.Keys(rows[0]))
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// Write rows
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = fmt.Sprint(row[col])
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	return nil
}

func exportJSON(out io.Writer, datasets map[string][]map[string]any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(datasets)
}

func exportYAML(out io.Writer, datasets map[string][]map[string]any) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(datasets); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return encoder.Close()
}
