// cmd/jetimage/main.go
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/urfave/cli"

	"github.com/tendant/jet-batch/internal/jet"
)

type normalizeOptions struct {
	Field      string
	AngleField string
	Rotate     jet.RotateOptions
	Pool       string
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := newApp(logger).Run(os.Args); err != nil {
		fatal(logger, "jetimage failed", err)
	}
}

func newApp(logger *slog.Logger) *cli.App {
	app := cli.NewApp()
	app.Name = "jetimage"
	app.Usage = "normalize jet images and plot their mean"
	app.Version = "0.1.0"
	app.Commands = []cli.Command{
		{
			Name:  "normalize",
			Usage: "rotate and flip the image of every record",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "in", Usage: "input JSON `FILE` (array of records)"},
				cli.StringFlag{Name: "out", Usage: "output JSON `FILE`"},
				cli.StringFlag{Name: "field", Value: "image", Usage: "record field holding the jet image"},
				cli.StringFlag{Name: "angle-field", Value: "angle", Usage: "record field holding the rotation angle (empty: no rotation)"},
				cli.BoolFlag{Name: "degrees", Usage: "angles are in degrees instead of radians"},
				cli.Float64Flag{Name: "normalizer", Value: jet.DefaultNormalizer, Usage: "energy ceiling and divisor"},
				cli.IntFlag{Name: "dim", Value: jet.DefaultDim, Usage: "side length of the image"},
				cli.StringFlag{Name: "pool", Value: "r", Usage: "side that should carry the most energy (l or r)"},
			},
			Action: func(c *cli.Context) error {
				opts := normalizeOptions{
					Field:      c.String("field"),
					AngleField: c.String("angle-field"),
					Rotate: jet.RotateOptions{
						InRadians:  !c.Bool("degrees"),
						Normalizer: c.Float64("normalizer"),
						Dim:        c.Int("dim"),
					},
					Pool: c.String("pool"),
				}
				return runNormalize(logger, c.String("in"), c.String("out"), opts)
			},
		},
		{
			Name:  "plot",
			Usage: "render the mean image of all records",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "in", Usage: "input JSON `FILE` (array of records)"},
				cli.StringFlag{Name: "out", Value: "mean.png", Usage: "image `FILE` to write (.png or .jpg)"},
				cli.StringFlag{Name: "field", Value: "image", Usage: "record field holding the jet image"},
				cli.StringFlag{Name: "title", Value: "Average Jet Image", Usage: "plot title"},
			},
			Action: func(c *cli.Context) error {
				return runPlot(logger, c.String("in"), c.String("out"), c.String("field"), c.String("title"))
			},
		},
	}
	return app
}

func runNormalize(logger *slog.Logger, in, out string, opts normalizeOptions) error {
	if in == "" || out == "" {
		return fmt.Errorf("--in and --out are required")
	}
	records, err := readRecords(in)
	if err != nil {
		return err
	}
	if err := normalize(records, opts); err != nil {
		return err
	}
	if err := writeRecords(out, records); err != nil {
		return err
	}
	logger.Info("normalized jet images", "records", len(records), "in", in, "out", out, "pool", opts.Pool)
	return nil
}

// normalize replaces the image field of every record with its rotated and
// flipped version.
func normalize(records []jet.Record, opts normalizeOptions) error {
	for i, rec := range records {
		flat, err := rec.Floats(opts.Field)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		var angle float64
		if opts.AngleField != "" {
			if angle, err = rec.Float(opts.AngleField); err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
		}

		rotated, err := jet.Rotate(flat, angle, opts.Rotate)
		if err != nil {
			return fmt.Errorf("record %d: rotate: %w", i, err)
		}
		flipped, err := jet.Flip(rotated, opts.Pool)
		if err != nil {
			return fmt.Errorf("record %d: flip: %w", i, err)
		}
		rec.SetImage(opts.Field, flipped)
	}
	return nil
}

func runPlot(logger *slog.Logger, in, out, field, title string) error {
	if in == "" {
		return fmt.Errorf("--in is required")
	}
	records, err := readRecords(in)
	if err != nil {
		return err
	}
	fig, err := jet.PlotMean(records, field, title)
	if err != nil {
		return err
	}
	if err := fig.Save(out); err != nil {
		return fmt.Errorf("save plot %s: %w", out, err)
	}
	logger.Info("plotted mean jet image", "records", len(records), "out", out, "sum", fig.Mean.Sum())
	return nil
}

func readRecords(path string) ([]jet.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	defer f.Close()
	return jet.ReadRecords(f)
}

func writeRecords(path string, records []jet.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := jet.WriteRecords(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fatal(logger *slog.Logger, msg string, err error, attrs ...any) {
	attrs = append(attrs, "err", err)
	logger.Error(msg, attrs...)
	os.Exit(1)
}
