package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alekLukanen/errs"
)

type IArtifactStorage interface {
	PublishArtifact(ctx context.Context, artifact *PipelineArtifact) error
	GetArtifact(ctx context.Context, version int) (*PipelineArtifact, error)
	GetLatestArtifact(ctx context.Context) (*PipelineArtifact, error)
	ListArtifactVersions(ctx context.Context) ([]int, error)
}

type ArtifactStorageOptions struct {
	BucketName string
	KeyPrefix  string
}

// ArtifactStorage keeps versioned fitted-pipeline artifacts as json
// blobs in object storage under
// <prefix>/pipeline-state/artifact_<version>.json.
type ArtifactStorage struct {
	logger *slog.Logger

	IObjectStorage

	bucketName string
	keyPrefix  string
}

func NewArtifactStorage(
	ctx context.Context,
	logger *slog.Logger,
	objectStorage IObjectStorage,
	options ArtifactStorageOptions,
) *ArtifactStorage {
	return &ArtifactStorage{
		logger:         logger,
		IObjectStorage: objectStorage,
		bucketName:     options.BucketName,
		keyPrefix:      options.KeyPrefix,
	}
}

func (obj *ArtifactStorage) artifactKeyPrefix() string {
	return fmt.Sprintf("%s/pipeline-state/artifact_", obj.keyPrefix)
}

func (obj *ArtifactStorage) artifactKey(version int) string {
	return fmt.Sprintf("%s%d.json", obj.artifactKeyPrefix(), version)
}

func (obj *ArtifactStorage) PublishArtifact(ctx context.Context, artifact *PipelineArtifact) error {
	if err := artifact.Validate(); err != nil {
		return errs.Wrap(err)
	}

	artifactData, err := artifact.ToBytes()
	if err != nil {
		return errs.Wrap(err)
	}

	err = obj.Upload(ctx, obj.bucketName, obj.artifactKey(artifact.Version), artifactData)
	if err != nil {
		return errs.Wrap(err, fmt.Errorf("failed publishing artifact version %d", artifact.Version))
	}

	obj.logger.Info(
		"published pipeline artifact",
		slog.String("id", artifact.Id),
		slog.Int("version", artifact.Version),
	)
	return nil
}

func (obj *ArtifactStorage) GetArtifact(ctx context.Context, version int) (*PipelineArtifact, error) {
	artifactData, err := obj.Download(ctx, obj.bucketName, obj.artifactKey(version))
	if err != nil {
		return nil, errs.Wrap(err, fmt.Errorf("failed getting artifact version %d", version))
	}
	if len(artifactData) == 0 {
		return nil, errs.Wrap(fmt.Errorf("%w| version: %d", ErrArtifactNotFound, version))
	}

	artifact, err := NewPipelineArtifactFromBytes(artifactData)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return artifact, nil
}

func (obj *ArtifactStorage) GetLatestArtifact(ctx context.Context) (*PipelineArtifact, error) {
	versions, err := obj.ListArtifactVersions(ctx)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, errs.Wrap(ErrArtifactNotFound)
	}

	newest := versions[0]
	for _, version := range versions {
		if version > newest {
			newest = version
		}
	}
	return obj.GetArtifact(ctx, newest)
}

func (obj *ArtifactStorage) ListArtifactVersions(ctx context.Context) ([]int, error) {
	keys, err := obj.ListObjects(ctx, obj.bucketName, obj.artifactKeyPrefix())
	if err != nil {
		return nil, errs.Wrap(err, fmt.Errorf("failed listing artifacts"))
	}

	versions := make([]int, 0, len(keys))
	for _, key := range keys {
		cleanedKey := strings.TrimPrefix(key, obj.artifactKeyPrefix())
		cleanedKey = strings.TrimSuffix(cleanedKey, ".json")
		version, err := strconv.Atoi(cleanedKey)
		if err != nil {
			continue
		}
		versions = append(versions, version)
	}
	return versions, nil
}
