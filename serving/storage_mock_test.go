package serving

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/alekLukanen/HousePricePipeline/storage"
)

type MockArtifactStorage struct {
	mock.Mock
}

func (obj *MockArtifactStorage) PublishArtifact(ctx context.Context, artifact *storage.PipelineArtifact) error {
	ret := obj.Called(ctx, artifact)
	return ret.Error(0)
}

func (obj *MockArtifactStorage) GetArtifact(ctx context.Context, version int) (*storage.PipelineArtifact, error) {
	ret := obj.Called(ctx, version)
	return ret.Get(0).(*storage.PipelineArtifact), ret.Error(1)
}

func (obj *MockArtifactStorage) GetLatestArtifact(ctx context.Context) (*storage.PipelineArtifact, error) {
	ret := obj.Called(ctx)
	return ret.Get(0).(*storage.PipelineArtifact), ret.Error(1)
}

func (obj *MockArtifactStorage) ListArtifactVersions(ctx context.Context) ([]int, error) {
	ret := obj.Called(ctx)
	return ret.Get(0).([]int), ret.Error(1)
}

type MockRegistryStorage struct {
	mock.Mock
}

func (obj *MockRegistryStorage) SetActiveVersion(ctx context.Context, version int) error {
	ret := obj.Called(ctx, version)
	return ret.Error(0)
}

func (obj *MockRegistryStorage) GetActiveVersion(ctx context.Context) (int, error) {
	ret := obj.Called(ctx)
	return ret.Get(0).(int), ret.Error(1)
}

func (obj *MockRegistryStorage) AcquireFitLock(ctx context.Context, duration time.Duration) (storage.ILock, error) {
	ret := obj.Called(ctx, duration)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(storage.ILock), ret.Error(1)
}

func (obj *MockRegistryStorage) ReleaseFitLock(ctx context.Context, lock storage.ILock) (bool, error) {
	ret := obj.Called(ctx, lock)
	return ret.Get(0).(bool), ret.Error(1)
}

type MockLock struct {
	mock.Mock
}

func (obj *MockLock) TryLockContext(ctx context.Context) error {
	ret := obj.Called(ctx)
	return ret.Error(0)
}

func (obj *MockLock) UnlockContext(ctx context.Context) (bool, error) {
	ret := obj.Called(ctx)
	return ret.Get(0).(bool), ret.Error(1)
}

func (obj *MockLock) Name() string {
	ret := obj.Called()
	return ret.String(0)
}
