package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/alekLukanen/errs"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/alekLukanen/HousePricePipeline/model"
	"github.com/alekLukanen/HousePricePipeline/operations"
	"github.com/alekLukanen/HousePricePipeline/preprocess"
	"github.com/alekLukanen/HousePricePipeline/serving"
	"github.com/alekLukanen/HousePricePipeline/storage"
)

func main() {

	trainFile := flag.String("train", "data/train.csv", "training csv file")
	inferenceFile := flag.String("inference", "", "optional inference csv used for column classification")
	matrixFile := flag.String("matrix", "", "optional parquet file to cache the training matrix")
	testFraction := flag.Float64("test-fraction", 0.2, "held-out fraction for evaluation")
	seed := flag.Int64("seed", 42, "split seed")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger.Info("running house price pipeline trainer")

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

	table, err := operations.LoadCsvTable(mem, *trainFile)
	if err != nil {
		logger.Error("unable to load training csv", slog.String("error", errs.ErrorWithStack(err)))
		return
	}
	defer table.Release()

	features, target, err := operations.SplitTargetColumn(mem, table)
	if err != nil {
		logger.Error("unable to split target column", slog.String("error", errs.ErrorWithStack(err)))
		return
	}

	trainRec, trainTarget, testRec, testTarget, err := operations.SplitRows(
		mem, features, target, *testFraction, *seed,
	)
	if err != nil {
		logger.Error("unable to split rows", slog.String("error", errs.ErrorWithStack(err)))
		return
	}
	logger.Info(
		"split training table",
		slog.Int("trainRows", int(trainRec.NumRows())),
		slog.Int("testRows", int(testRec.NumRows())),
	)

	inferenceRec := trainRec
	if *inferenceFile != "" {
		inferenceRec, err = operations.LoadCsvTable(mem, *inferenceFile)
		if err != nil {
			logger.Error("unable to load inference csv", slog.String("error", errs.ErrorWithStack(err)))
			return
		}
		defer inferenceRec.Release()
	}

	pipeline, err := server.Fit(ctx, trainRec, inferenceRec, trainTarget)
	if err != nil {
		logger.Error("unable to fit pipeline", slog.String("error", errs.ErrorWithStack(err)))
		return
	}
	logger.Info(
		"fitted pipeline",
		slog.Int("version", pipeline.Version),
		slog.Int("numFeatures", len(pipeline.State.FeatureNames)),
	)

	predictions, err := server.Predict(ctx, testRec)
	if err != nil {
		logger.Error("unable to score held-out rows", slog.String("error", errs.ErrorWithStack(err)))
		return
	}

	rmse, err := model.RMSE(predictions, testTarget)
	if err != nil {
		logger.Error("unable to compute rmse", slog.String("error", errs.ErrorWithStack(err)))
		return
	}
	r2, err := model.R2(predictions, testTarget)
	if err != nil {
		logger.Error("unable to compute r2", slog.String("error", errs.ErrorWithStack(err)))
		return
	}
	logger.Info(
		"held-out evaluation",
		slog.Float64("rmse", rmse),
		slog.Float64("r2", r2),
	)

	if *matrixFile != "" {
		preprocessor := preprocess.NewPreprocessor(logger, preprocess.DefaultPreprocessorOptions())
		matrix, err := preprocessor.Transform(ctx, mem, trainRec, pipeline.State)
		if err != nil {
			logger.Error("unable to transform training table", slog.String("error", errs.ErrorWithStack(err)))
			return
		}
		if err := storage.WriteRecordToParquetFile(ctx, mem, matrix, *matrixFile); err != nil {
			logger.Error("unable to write matrix parquet file", slog.String("error", errs.ErrorWithStack(err)))
			return
		}
		logger.Info("cached training matrix", slog.String("file", *matrixFile))
	}

}
