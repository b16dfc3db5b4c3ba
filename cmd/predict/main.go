package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/alekLukanen/errs"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"gonum.org/v1/gonum/stat"

	"github.com/alekLukanen/HousePricePipeline/operations"
	"github.com/alekLukanen/HousePricePipeline/serving"
	"github.com/alekLukanen/HousePricePipeline/storage"
)

func main() {

	inferenceFile := flag.String("inference", "data/inference.csv", "inference csv file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger.Info("running house price pipeline batch scorer")

	ctx := context.Background()
	mem := memory.NewGoAllocator()

	server, err := serving.NewPipelineServer(
		ctx,
		logger,
		storage.NewObjectStorageOptionsFromStaticCredentials(
			"http://localhost:9090",
			"us-west-2",
			"key",
			"secret",
			true,
		),
		storage.ArtifactStorageOptions{
			BucketName: "house-price-pipeline",
			KeyPrefix:  "pipeline",
		},
		storage.RegistryStorageOptions{
			Address:   "localhost:6379",
			Password:  "",
			KeyPrefix: "housePricePipeline",
		},
		serving.DefaultPipelineServerOptions(),
	)
	if err != nil {
		logger.Error("unable to build pipeline server", slog.String("error", errs.ErrorWithStack(err)))
		return
	}

	pipeline, err := server.Reload(ctx)
	if err != nil {
		logger.Error("unable to load fitted pipeline", slog.String("error", errs.ErrorWithStack(err)))
		return
	}
	logger.Info("loaded pipeline", slog.Int("version", pipeline.Version))

	table, err := operations.LoadCsvTable(mem, *inferenceFile)
	if err != nil {
		logger.Error("unable to load inference csv", slog.String("error", errs.ErrorWithStack(err)))
		return
	}
	defer table.Release()

	predictions, err := server.Predict(ctx, table)
	if err != nil {
		logger.Error("unable to score inference rows", slog.String("error", errs.ErrorWithStack(err)))
		return
	}

	if len(predictions) == 0 {
		logger.Info("no rows to score")
		return
	}

	minPrediction := predictions[0]
	maxPrediction := predictions[0]
	for _, prediction := range predictions {
		if prediction < minPrediction {
			minPrediction = prediction
		}
		if prediction > maxPrediction {
			maxPrediction = prediction
		}
	}
	logger.Info(
		"prediction summary",
		slog.Int("count", len(predictions)),
		slog.Float64("min", minPrediction),
		slog.Float64("max", maxPrediction),
		slog.Float64("mean", stat.Mean(predictions, nil)),
	)

	for i, prediction := range predictions {
		logger.Info("prediction", slog.Int("row", i), slog.Float64("salePrice", prediction))
	}

}
