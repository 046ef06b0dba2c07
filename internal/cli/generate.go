package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"fluvsynth/internal/facies"
	"fluvsynth/internal/gen"
	"fluvsynth/internal/render"
	"fluvsynth/internal/stats"
	"fluvsynth/internal/store"
)

type generateOpts struct {
	style    string
	mode     string
	seed     int64
	height   int
	width    int
	outDir   string
	scenario string
	dbPath   string
	metrics  bool
	masks    bool
	sets     []string
}

func newGenerateCmd() *cobra.Command {
	opts := generateOpts{
		style:  "meandering",
		seed:   42,
		height: 512,
		width:  512,
		outDir: "out",
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Synthesize analog rasters and write PNG/JSON artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			if opts.scenario != "" {
				scenarios, err := LoadScenarios(opts.scenario)
				if err != nil {
					return err
				}
				for _, sc := range scenarios {
					params := baseParams(opts)
					for k, v := range sc.Params {
						params[k] = v
					}
					if err := applyOverrides(params, opts.sets); err != nil {
						return err
					}
					if err := runGenerate(cmd, params, filepath.Join(opts.outDir, sc.Name), opts); err != nil {
						return fmt.Errorf("scenario %s: %w", sc.Name, err)
					}
					logger.Info("scenario complete", "name", sc.Name)
				}
				return nil
			}

			params := baseParams(opts)
			if err := applyOverrides(params, opts.sets); err != nil {
				return err
			}
			return runGenerate(cmd, params, opts.outDir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.style, "style", opts.style, "depositional style (meandering, braided, anastomosing)")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "generation mode (single or stacked)")
	cmd.Flags().Int64Var(&opts.seed, "seed", opts.seed, "random seed")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "raster height in pixels")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "raster width in pixels")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", opts.outDir, "output directory")
	cmd.Flags().StringVar(&opts.scenario, "scenario", "", "TOML scenario file for batch generation")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "SQLite database to record runs in")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "also compute and save the metric record")
	cmd.Flags().BoolVar(&opts.masks, "masks", false, "also write each facies mask as a grayscale PNG")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "parameter override in key=value form (repeatable)")
	return cmd
}

func baseParams(opts generateOpts) map[string]string {
	params := map[string]string{
		"style":  opts.style,
		"seed":   strconv.FormatInt(opts.seed, 10),
		"height": strconv.Itoa(opts.height),
		"width":  strconv.Itoa(opts.width),
	}
	if opts.mode != "" {
		params["mode"] = opts.mode
	}
	return params
}

func runGenerate(cmd *cobra.Command, params map[string]string, outDir string, opts generateOpts) error {
	logger := loggerFromContext(cmd.Context())
	step := newProgress(logger)

	out, err := gen.Generate(params)
	if err != nil {
		return err
	}
	step.done(fmt.Sprintf("generated %s/%s realization", out.Style, out.Mode))

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := render.WritePNG(filepath.Join(outDir, "gray.png"), render.GrayImage(out.Gray)); err != nil {
		return err
	}
	palette := facies.DefaultPalettes()[string(out.Style)]
	if err := render.WritePNG(filepath.Join(outDir, "facies.png"), render.ColorImage(out.Masks, palette)); err != nil {
		return err
	}
	if idMap, ok := out.Masks[facies.KeyPackageIDMap]; ok {
		if err := render.WritePNG(filepath.Join(outDir, "package_id_map.png"), render.IDMapImage(idMap)); err != nil {
			return err
		}
	}
	if opts.masks {
		maskDir := filepath.Join(outDir, "masks")
		if err := os.MkdirAll(maskDir, 0o755); err != nil {
			return fmt.Errorf("create mask dir: %w", err)
		}
		for _, key := range out.Masks.SortedKeys() {
			path := filepath.Join(maskDir, key+".png")
			if err := render.WritePNG(path, render.GrayImage(out.Masks[key])); err != nil {
				return err
			}
		}
	}
	if err := writeJSON(filepath.Join(outDir, "metadata.json"), out.Meta); err != nil {
		return err
	}

	var record stats.Record
	if opts.metrics {
		record = stats.ComputeMetrics(out.Gray, out.Masks, string(out.Style), out.Meta)
		if err := writeJSON(filepath.Join(outDir, "metrics.json"), record); err != nil {
			return err
		}
	}

	if opts.dbPath != "" {
		if err := recordRun(opts.dbPath, params, out, outDir, record); err != nil {
			return err
		}
	}
	logger.Info("artifacts written", "dir", outDir)
	return nil
}

func recordRun(dbPath string, params map[string]string, out gen.Output, outDir string, record stats.Record) error {
	db, err := store.NewSQLiteDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return err
	}

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return err
	}
	seed, _ := strconv.ParseInt(params["seed"], 10, 64)
	height, _ := strconv.Atoi(params["height"])
	width, _ := strconv.Atoi(params["width"])
	run := &store.Run{
		Style:      string(out.Style),
		Mode:       out.Mode,
		Seed:       seed,
		Height:     height,
		Width:      width,
		ParamsJSON: string(paramsJSON),
		OutputDir:  outDir,
	}
	if err := db.SaveRun(run); err != nil {
		return err
	}
	if record != nil {
		return db.SaveMetrics(run.ID, store.MetricsFromRecord(record))
	}
	return nil
}

func writeJSON(path string, v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return os.WriteFile(path, append(encoded, '\n'), 0o644)
}
