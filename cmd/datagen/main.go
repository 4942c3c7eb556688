// Command datagen writes the sensor and batch datasets to a local directory.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/saral1230/AIML-applied-mocks/internal/config"
	"github.com/saral1230/AIML-applied-mocks/internal/domain/entity"
	"github.com/saral1230/AIML-applied-mocks/internal/domain/generator"
	"github.com/saral1230/AIML-applied-mocks/internal/domain/usecase"
	"github.com/saral1230/AIML-applied-mocks/internal/repository/local"
	"github.com/saral1230/AIML-applied-mocks/pkg/logger"
)

type options struct {
	kind      string
	out       string
	seed      uint64
	seedSet   bool
	format    entity.Format
	chunkSize int
	vocabFile string
	logMode   string

	sensor   entity.SensorParams
	batches  int
	readings int
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("datagen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	def := entity.DefaultSensorParams()
	var (
		o      options
		format string
	)
	fs.StringVar(&o.kind, "kind", "all", "dataset to generate: sensor, batch or all")
	fs.StringVar(&o.out, "out", ".", "output directory")
	fs.Uint64Var(&o.seed, "seed", 0, "random seed (default: current time)")
	fs.StringVar(&format, "format", string(entity.FormatCSV), "output format: csv or xlsx")
	fs.IntVar(&o.chunkSize, "chunk", 0, "sensor rows per csv part, 0 writes one file")
	fs.StringVar(&o.vocabFile, "vocab", "", "YAML vocabulary profile for the batch dataset")
	fs.StringVar(&o.logMode, "log", "dev", "log mode: dev or prod")

	fs.IntVar(&o.sensor.Machines, "machines", def.Machines, "number of machines")
	fs.IntVar(&o.sensor.Days, "days", def.Days, "days of readings per machine")
	fs.IntVar(&o.sensor.SamplesPerHour, "sph", def.SamplesPerHour, "samples per hour")
	fs.Float64Var(&o.sensor.FailureProb, "failure-prob", def.FailureProb, "failure probability inside the degradation zone")

	fs.IntVar(&o.batches, "batches", 50, "number of batches")
	fs.IntVar(&o.readings, "readings", entity.DefaultBatchParams(nil).ReadingsPerParam, "readings per process parameter")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			o.seedSet = true
		}
	})

	o.format = entity.Format(format)
	if !o.format.Valid() {
		return options{}, fmt.Errorf("unsupported format %q", format)
	}
	switch o.kind {
	case "sensor", "batch", "all":
	default:
		return options{}, fmt.Errorf("unknown kind %q", o.kind)
	}
	if o.batches < 0 || o.readings < 0 {
		return options{}, errors.New("batches and readings must not be negative")
	}
	if o.batches > generator.MaxBatches {
		return options{}, fmt.Errorf("%w: %d batches, limit %d", generator.ErrTooLarge, o.batches, generator.MaxBatches)
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	log, err := logger.New(o.logMode)
	if err != nil {
		return err
	}
	defer log.Sync()

	if !o.seedSet {
		o.seed = uint64(time.Now().UnixNano())
	}
	g := generator.NewSeeded(o.seed)
	log.Info("generating datasets", "kind", o.kind, "seed", o.seed, "out", o.out, "format", o.format)

	var (
		artifacts []usecase.Artifact
		summary   = map[string]interface{}{"seed": o.seed}
	)

	if o.kind == "sensor" || o.kind == "all" {
		readings, err := g.SensorReadings(o.sensor)
		if err != nil {
			return err
		}
		rendered, err := usecase.RenderSensor("", readings, o.format, o.chunkSize)
		if err != nil {
			return err
		}
		artifacts = append(artifacts, rendered...)
		summary["sensor"] = generator.SummarizeSensor(readings)
	}

	if o.kind == "batch" || o.kind == "all" {
		vocabulary, err := config.LoadVocabulary(o.vocabFile)
		if err != nil {
			return err
		}
		params := usecase.BatchRequest{BatchCount: &o.batches, ReadingsPerParam: &o.readings}.Resolve(vocabulary)
		ds, err := g.BatchDataset(params)
		if err != nil {
			return err
		}
		rendered, err := usecase.RenderBatch("", ds, o.format)
		if err != nil {
			return err
		}
		artifacts = append(artifacts, rendered...)
		summary["batch"] = generator.SummarizeBatch(ds)
	}

	if err := write(ctx, local.NewDirRepo(o.out), artifacts); err != nil {
		return err
	}
	for _, key := range usecase.ArtifactKeys(artifacts) {
		log.Info("wrote artifact", "key", key)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

func write(ctx context.Context, store *local.DirRepo, artifacts []usecase.Artifact) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, a := range artifacts {
		g.Go(func() error {
			return store.Upload(gctx, a.Key, a.Data, a.ContentType)
		})
	}
	return g.Wait()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "datagen:", err)
		os.Exit(1)
	}
}
