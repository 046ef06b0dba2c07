package cli

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"fluvsynth/internal/gen"
	"fluvsynth/internal/stats"
)

type metricsOpts struct {
	style   string
	mode    string
	seed    int64
	height  int
	width   int
	csvPath string
	preview bool
	sets    []string
}

func newMetricsCmd() *cobra.Command {
	opts := metricsOpts{
		style:  "meandering",
		seed:   42,
		height: 512,
		width:  512,
	}

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Regenerate a realization and print its metric record",
		Long:  "Generation is deterministic for a fixed (style, parameters, seed), so metrics are computed by regenerating the realization rather than reading rasters back from disk.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			params := baseParams(generateOpts{
				style:  opts.style,
				mode:   opts.mode,
				seed:   opts.seed,
				height: opts.height,
				width:  opts.width,
			})
			if err := applyOverrides(params, opts.sets); err != nil {
				return err
			}

			step := newProgress(logger)
			out, err := gen.Generate(params)
			if err != nil {
				return err
			}

			var record stats.Record
			if opts.preview {
				record = stats.PreviewMetrics(out.Gray)
			} else {
				record = stats.ComputeMetrics(out.Gray, out.Masks, string(out.Style), out.Meta)
			}
			step.done(fmt.Sprintf("computed %d metrics", len(record)))

			if opts.csvPath != "" {
				return writeRecordCSV(opts.csvPath, record)
			}
			printRecord(cmd, record)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.style, "style", opts.style, "depositional style")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "generation mode (single or stacked)")
	cmd.Flags().Int64Var(&opts.seed, "seed", opts.seed, "random seed")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "raster height in pixels")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "raster width in pixels")
	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "write the record as CSV instead of printing")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "compute only the fast preview subset")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "parameter override in key=value form (repeatable)")
	return cmd
}

func sortedKeys(record stats.Record) []string {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func printRecord(cmd *cobra.Command, record stats.Record) {
	for _, key := range sortedKeys(record) {
		cmd.Printf("%-45s %s\n", key, formatMetric(record[key]))
	}
}

func writeRecordCSV(path string, record stats.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	for _, key := range sortedKeys(record) {
		if err := w.Write([]string{key, formatMetric(record[key])}); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatMetric(v any) string {
	switch value := v.(type) {
	case float64:
		return strconv.FormatFloat(value, 'g', 8, 64)
	case bool:
		return strconv.FormatBool(value)
	case int:
		return strconv.Itoa(value)
	case string:
		return value
	default:
		return fmt.Sprint(value)
	}
}
