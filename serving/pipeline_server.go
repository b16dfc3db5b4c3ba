package serving

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/alekLukanen/errs"
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/alekLukanen/HousePricePipeline/elements"
	"github.com/alekLukanen/HousePricePipeline/model"
	"github.com/alekLukanen/HousePricePipeline/operations"
	"github.com/alekLukanen/HousePricePipeline/preprocess"
	"github.com/alekLukanen/HousePricePipeline/storage"
)

// FittedPipeline pairs a fitted preprocessing state with the model
// trained on its output. Instances are immutable once built; the
// server swaps whole pipelines, never mutates one in place.
type FittedPipeline struct {
	Version int
	State   *preprocess.FittedState
	Model   model.IRegressor
}

type PipelineServerOptions struct {
	ModelName       string
	FitLockDuration time.Duration
	Preprocessor    preprocess.PreprocessorOptions
}

func DefaultPipelineServerOptions() PipelineServerOptions {
	return PipelineServerOptions{
		ModelName:       model.MeanRegressorName,
		FitLockDuration: 5 * time.Minute,
		Preprocessor:    preprocess.DefaultPreprocessorOptions(),
	}
}

type PipelineServer struct {
	logger          *slog.Logger
	allocator       *memory.GoAllocator
	artifactStorage storage.IArtifactStorage
	registry        storage.IRegistryStorage
	preprocessor    *preprocess.Preprocessor

	options PipelineServerOptions
	active  atomic.Pointer[FittedPipeline]
}

func NewPipelineServer(
	ctx context.Context,
	logger *slog.Logger,
	objectStorageOptions storage.ObjectStorageOptions,
	artifactStorageOptions storage.ArtifactStorageOptions,
	registryStorageOptions storage.RegistryStorageOptions,
	options PipelineServerOptions,
) (*PipelineServer, error) {
	objectStorage, err := storage.NewObjectStorage(ctx, logger, objectStorageOptions)
	if err != nil {
		return nil, errs.Wrap(err)
	}

	artifactStorage := storage.NewArtifactStorage(
		ctx, logger, objectStorage, artifactStorageOptions,
	)

	registryStorage, err := storage.NewRegistryStorage(ctx, logger, registryStorageOptions)
	if err != nil {
		return nil, errs.Wrap(err)
	}

	return NewPipelineServerWithStorage(logger, artifactStorage, registryStorage, options), nil
}

// NewPipelineServerWithStorage wires a server onto existing storage
// implementations. Used by tests and by processes that share clients.
func NewPipelineServerWithStorage(
	logger *slog.Logger,
	artifactStorage storage.IArtifactStorage,
	registry storage.IRegistryStorage,
	options PipelineServerOptions,
) *PipelineServer {
	return &PipelineServer{
		logger:          logger,
		allocator:       memory.NewGoAllocator(),
		artifactStorage: artifactStorage,
		registry:        registry,
		preprocessor:    preprocess.NewPreprocessor(logger, options.Preprocessor),
		options:         options,
	}
}

func (obj *PipelineServer) ActivePipeline() *FittedPipeline {
	return obj.active.Load()
}

// Fit trains a new pipeline version on the given tables and publishes
// it. The registry fit lock ensures only one fit runs at a time; a
// second caller gets storage.ErrLockFailed instead of waiting.
func (obj *PipelineServer) Fit(
	ctx context.Context,
	train arrow.Record,
	secondary arrow.Record,
	target []float64,
) (*FittedPipeline, error) {

	fitLock, err := obj.registry.AcquireFitLock(ctx, obj.options.FitLockDuration)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	defer func() {
		if _, unlockErr := obj.registry.ReleaseFitLock(ctx, fitLock); unlockErr != nil {
			obj.logger.Error("failed to release fit lock", slog.String("error", unlockErr.Error()))
		}
	}()

	matrix, state, err := obj.preprocessor.FitTransform(ctx, obj.allocator, train, secondary, target)
	if err != nil {
		return nil, errs.Wrap(err)
	}

	regressor, err := model.NewRegressorByName(obj.options.ModelName)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	if err := regressor.Fit(ctx, matrix, target); err != nil {
		return nil, errs.Wrap(err)
	}

	version, err := obj.nextVersion(ctx)
	if err != nil {
		return nil, errs.Wrap(err)
	}

	artifact, err := buildArtifact(version, state, regressor)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	if err := obj.artifactStorage.PublishArtifact(ctx, artifact); err != nil {
		return nil, errs.Wrap(err)
	}
	if err := obj.registry.SetActiveVersion(ctx, version); err != nil {
		return nil, errs.Wrap(err)
	}

	pipeline := &FittedPipeline{
		Version: version,
		State:   state,
		Model:   regressor,
	}
	obj.active.Store(pipeline)

	obj.logger.Info(
		"published fitted pipeline",
		slog.Int("version", version),
		slog.Int("numFeatures", len(state.FeatureNames)),
		slog.String("model", regressor.Name()),
	)
	return pipeline, nil
}

func (obj *PipelineServer) nextVersion(ctx context.Context) (int, error) {
	versions, err := obj.artifactStorage.ListArtifactVersions(ctx)
	if err != nil {
		return 0, err
	}
	maxVersion := 0
	for _, version := range versions {
		if version > maxVersion {
			maxVersion = version
		}
	}
	return maxVersion + 1, nil
}

// Reload loads the registry's active version and swaps it in. When the
// registry has no pointer yet it falls back to the latest published
// artifact. Concurrent Predict calls keep using the previous pipeline
// until the swap completes.
func (obj *PipelineServer) Reload(ctx context.Context) (*FittedPipeline, error) {
	var artifact *storage.PipelineArtifact

	version, err := obj.registry.GetActiveVersion(ctx)
	if err == nil {
		artifact, err = obj.artifactStorage.GetArtifact(ctx, version)
		if err != nil {
			return nil, errs.Wrap(err)
		}
	} else if errors.Is(err, storage.ErrNoActiveVersion) {
		artifact, err = obj.artifactStorage.GetLatestArtifact(ctx)
		if err != nil {
			return nil, errs.Wrap(err)
		}
	} else {
		return nil, errs.Wrap(err)
	}

	pipeline, err := hydratePipeline(artifact)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	obj.active.Store(pipeline)

	obj.logger.Info("reloaded pipeline", slog.Int("version", pipeline.Version))
	return pipeline, nil
}

// Predict transforms a raw-schema table with the active pipeline's
// fitted state and scores it.
func (obj *PipelineServer) Predict(ctx context.Context, rec arrow.Record) ([]float64, error) {
	pipeline := obj.active.Load()
	if pipeline == nil {
		return nil, errs.Wrap(ErrNoPipelineLoaded)
	}

	matrix, err := obj.preprocessor.Transform(ctx, obj.allocator, rec, pipeline.State)
	if err != nil {
		return nil, errs.Wrap(err)
	}

	predictions, err := pipeline.Model.Predict(ctx, matrix)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return predictions, nil
}

// PredictRows scores loosely typed row payloads, one struct per row.
// Unknown fields are dropped and absent fields read as missing.
func (obj *PipelineServer) PredictRows(ctx context.Context, rows []*structpb.Struct) ([]float64, error) {
	rec, err := operations.StructsToRecord(obj.allocator, elements.RawSchema(), rows)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	defer rec.Release()
	return obj.Predict(ctx, rec)
}

// PredictAvroRows scores avro-encoded row payloads, one binary blob
// per row, encoded with the raw-schema codec.
func (obj *PipelineServer) PredictAvroRows(ctx context.Context, rows [][]byte) ([]float64, error) {
	rec, err := operations.AvroRowsToRecord(obj.allocator, elements.RawSchema(), rows)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	defer rec.Release()
	return obj.Predict(ctx, rec)
}

func buildArtifact(version int, state *preprocess.FittedState, regressor model.IRegressor) (*storage.PipelineArtifact, error) {
	stateData, err := state.ToBytes()
	if err != nil {
		return nil, err
	}
	modelData, err := regressor.Marshal()
	if err != nil {
		return nil, err
	}
	return &storage.PipelineArtifact{
		Id:          fmt.Sprintf("artifact-%s", uuid.New().String()),
		Version:     version,
		CreatedAtMs: time.Now().UnixMilli(),
		Preprocess:  stateData,
		ModelName:   regressor.Name(),
		Model:       modelData,
	}, nil
}

func hydratePipeline(artifact *storage.PipelineArtifact) (*FittedPipeline, error) {
	state, err := preprocess.NewFittedStateFromBytes(artifact.Preprocess)
	if err != nil {
		return nil, err
	}
	regressor, err := model.NewRegressorByName(artifact.ModelName)
	if err != nil {
		return nil, err
	}
	if err := regressor.Unmarshal(artifact.Model); err != nil {
		return nil, err
	}
	return &FittedPipeline{
		Version: artifact.Version,
		State:   state,
		Model:   regressor,
	}, nil
}
