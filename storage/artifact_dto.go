package storage

import (
	"encoding/json"
	"fmt"
)

// PipelineArtifact is the persisted form of one fitted pipeline: the
// preprocessor's fitted state and the model state, opaque to this
// package. The artifact is the only thing a serving process needs to
// reproduce transform behavior bit for bit.
type PipelineArtifact struct {
	Id          string          `json:"id"`
	Version     int             `json:"version"`
	CreatedAtMs int64           `json:"created_at_ms"`
	Preprocess  json.RawMessage `json:"preprocess"`
	ModelName   string          `json:"model_name"`
	Model       json.RawMessage `json:"model"`
}

func NewPipelineArtifactFromBytes(data []byte) (*PipelineArtifact, error) {
	artifact := &PipelineArtifact{}
	err := json.Unmarshal(data, artifact)
	if err != nil {
		return nil, err
	}
	if ifErr := artifact.Validate(); ifErr != nil {
		return nil, ifErr
	}
	return artifact, nil
}

func (obj *PipelineArtifact) ToBytes() ([]byte, error) {
	return json.Marshal(obj)
}

func (obj *PipelineArtifact) Validate() error {
	if obj.Id == "" {
		return fmt.Errorf("%w: id is required", ErrArtifactInvalid)
	}
	if obj.Version < 1 {
		return fmt.Errorf("%w: version must be positive", ErrArtifactInvalid)
	}
	if len(obj.Preprocess) == 0 {
		return fmt.Errorf("%w: preprocess state is required", ErrArtifactInvalid)
	}
	if obj.ModelName == "" {
		return fmt.Errorf("%w: model name is required", ErrArtifactInvalid)
	}
	if len(obj.Model) == 0 {
		return fmt.Errorf("%w: model state is required", ErrArtifactInvalid)
	}
	return nil
}
