package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strconv"
	"sync"

	"github.com/spf13/cobra"

	"fluvsynth/internal/gen"
	"fluvsynth/internal/stats"
	"fluvsynth/internal/store"
)

type sweepOpts struct {
	styles    []string
	seeds     int
	seedBase  int64
	height    int
	width     int
	workers   int
	csvPath   string
	dbPath    string
	scenario  string
	sets      []string
	sortByKey string
}

type sweepJob struct {
	index  int
	name   string
	params map[string]string
}

type sweepResult struct {
	job    sweepJob
	record stats.Record
	err    error
}

func newSweepCmd() *cobra.Command {
	opts := sweepOpts{
		styles:    []string{"meandering", "braided", "anastomosing"},
		seeds:     8,
		seedBase:  1000,
		height:    256,
		width:     256,
		workers:   runtime.NumCPU(),
		csvPath:   "sweep.csv",
		sortByKey: "beta_iso",
	}

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Generate a style × seed grid in parallel and tabulate metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			jobs, err := buildSweepJobs(opts)
			if err != nil {
				return err
			}
			if opts.workers < 1 {
				opts.workers = 1
			}
			logger.Info("starting sweep", "jobs", len(jobs), "workers", opts.workers)

			step := newProgress(logger)
			results := runSweep(jobs, opts.workers)
			failures := 0
			for _, res := range results {
				if res.err != nil {
					failures++
					logger.Error("sweep job failed", "job", res.job.name, "err", res.err)
				}
			}
			step.done(fmt.Sprintf("swept %d jobs, %d failed", len(results), failures))

			sort.SliceStable(results, func(a, b int) bool {
				return metricValue(results[a].record, opts.sortByKey) > metricValue(results[b].record, opts.sortByKey)
			})

			if err := writeSweepCSV(opts.csvPath, results); err != nil {
				return err
			}
			logger.Info("sweep table written", "path", opts.csvPath)

			if opts.dbPath != "" {
				return recordSweep(opts.dbPath, results)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&opts.styles, "styles", opts.styles, "styles to sweep")
	cmd.Flags().IntVar(&opts.seeds, "seeds", opts.seeds, "seeds per style")
	cmd.Flags().Int64Var(&opts.seedBase, "seed-base", opts.seedBase, "first seed of the sweep")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "raster height in pixels")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "raster width in pixels")
	cmd.Flags().IntVar(&opts.workers, "workers", opts.workers, "parallel generation workers")
	cmd.Flags().StringVar(&opts.csvPath, "csv", opts.csvPath, "CSV output path")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "SQLite database to record sweep runs in")
	cmd.Flags().StringVar(&opts.scenario, "scenario", "", "TOML scenario file instead of the style grid")
	cmd.Flags().StringVar(&opts.sortByKey, "sort-by", opts.sortByKey, "metric key to sort the table by")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "parameter override in key=value form (repeatable)")
	return cmd
}

func buildSweepJobs(opts sweepOpts) ([]sweepJob, error) {
	var bases []Scenario
	if opts.scenario != "" {
		scenarios, err := LoadScenarios(opts.scenario)
		if err != nil {
			return nil, err
		}
		bases = scenarios
	} else {
		for _, style := range opts.styles {
			bases = append(bases, Scenario{Name: style, Params: map[string]string{"style": style}})
		}
	}

	var jobs []sweepJob
	for _, base := range bases {
		for s := 0; s < opts.seeds; s++ {
			seed := opts.seedBase + int64(s)
			params := map[string]string{
				"height": strconv.Itoa(opts.height),
				"width":  strconv.Itoa(opts.width),
			}
			for k, v := range base.Params {
				params[k] = v
			}
			params["seed"] = strconv.FormatInt(seed, 10)
			if err := applyOverrides(params, opts.sets); err != nil {
				return nil, err
			}
			jobs = append(jobs, sweepJob{
				index:  len(jobs),
				name:   fmt.Sprintf("%s/seed=%d", base.Name, seed),
				params: params,
			})
		}
	}
	return jobs, nil
}

// runSweep fans the jobs out over a fixed worker pool and returns results in
// job order.
func runSweep(jobs []sweepJob, workers int) []sweepResult {
	jobCh := make(chan sweepJob)
	results := make([]sweepResult, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				results[job.index] = evaluateSweepJob(job)
			}
		}()
	}
	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)
	wg.Wait()
	return results
}

func evaluateSweepJob(job sweepJob) sweepResult {
	out, err := gen.Generate(job.params)
	if err != nil {
		return sweepResult{job: job, err: err}
	}
	record := stats.ComputeMetrics(out.Gray, out.Masks, string(out.Style), out.Meta)
	return sweepResult{job: job, record: record}
}

func metricValue(record stats.Record, key string) float64 {
	if record == nil {
		return 0
	}
	if v, ok := record[key].(float64); ok {
		return v
	}
	return 0
}

// writeSweepCSV emits one row per job with the union of metric keys as
// columns, so heterogeneous style outputs still line up.
func writeSweepCSV(path string, results []sweepResult) error {
	keySet := map[string]bool{}
	for _, res := range results {
		for k := range res.record {
			keySet[k] = true
		}
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	header := append([]string{"job", "error"}, keys...)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	for _, res := range results {
		row := make([]string, 0, len(header))
		row = append(row, res.job.name)
		if res.err != nil {
			row = append(row, res.err.Error())
		} else {
			row = append(row, "")
		}
		for _, key := range keys {
			if value, ok := res.record[key]; ok {
				row = append(row, formatMetric(value))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
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

func recordSweep(dbPath string, results []sweepResult) error {
	db, err := store.NewSQLiteDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return err
	}
	for _, res := range results {
		if res.err != nil {
			continue
		}
		paramsJSON, err := json.Marshal(res.job.params)
		if err != nil {
			return err
		}
		seed, _ := strconv.ParseInt(res.job.params["seed"], 10, 64)
		height, _ := strconv.Atoi(res.job.params["height"])
		width, _ := strconv.Atoi(res.job.params["width"])
		run := &store.Run{
			Style:      res.job.params["style"],
			Mode:       "sweep",
			Seed:       seed,
			Height:     height,
			Width:      width,
			ParamsJSON: string(paramsJSON),
		}
		if err := db.SaveRun(run); err != nil {
			return err
		}
		if err := db.SaveMetrics(run.ID, store.MetricsFromRecord(res.record)); err != nil {
			return err
		}
	}
	return nil
}
