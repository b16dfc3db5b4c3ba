package preprocess

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/alekLukanen/errs"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/alekLukanen/HousePricePipeline/elements"
	"github.com/alekLukanen/HousePricePipeline/features"
)

type PreprocessorOptions struct {
	TargetEncodeCols  []string
	TargetEncodeAlpha float64
	RareMinCount      int
	OrdinalOrders     map[string][]string
}

func DefaultPreprocessorOptions() PreprocessorOptions {
	return PreprocessorOptions{
		TargetEncodeCols:  elements.TargetEncodedColumns(),
		TargetEncodeAlpha: 30.0,
		RareMinCount:      15,
		OrdinalOrders:     elements.OrdinalOrders(),
	}
}

// FittedState is the complete read-only product of one training fit:
// the deriver's winsorization threshold, the column roles, every chain
// stage's statistics, the per-group imputation and encoding state, and
// the kept-column index. It owns no reference back to the training data.
// Serialization is symmetric: a state reloaded from bytes reproduces
// bit-identical transform behavior.
type FittedState struct {
	Deriver      features.DeriverState `json:"deriver"`
	Roles        elements.FeatureRoles `json:"roles"`
	Ordinal      *OrdinalMapper        `json:"ordinal"`
	Missing      *MissingnessIndicator `json:"missing"`
	Rare         *RarePooler           `json:"rare"`
	TargetEnc    *TargetEncoder        `json:"targetEnc"`
	Assembler    *GroupAssembler       `json:"assembler"`
	Final        *Finalizer            `json:"final"`
	FeatureNames []string              `json:"featureNames"`
}

func NewFittedStateFromBytes(data []byte) (*FittedState, error) {
	state := &FittedState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, errs.Wrap(err, fmt.Errorf("failed decoding fitted state"))
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}
	return state, nil
}

func (obj *FittedState) ToBytes() ([]byte, error) {
	return json.Marshal(obj)
}

func (obj *FittedState) Validate() error {
	if obj.Ordinal == nil || obj.Missing == nil || obj.Rare == nil ||
		obj.TargetEnc == nil || obj.Assembler == nil || obj.Final == nil {
		return errs.Wrap(fmt.Errorf("%w| missing stage state", ErrFittedStateInvalid))
	}
	if err := obj.Roles.IsValid(); err != nil {
		return errs.Wrap(fmt.Errorf("%w| %v", ErrFittedStateInvalid, err))
	}
	if len(obj.FeatureNames) == 0 {
		return errs.Wrap(fmt.Errorf("%w| no output features", ErrFittedStateInvalid))
	}
	if len(obj.FeatureNames) != len(obj.Final.KeepIdx) {
		return errs.Wrap(fmt.Errorf("%w| feature names and kept columns differ", ErrFittedStateInvalid))
	}
	for _, colIdx := range obj.Final.KeepIdx {
		if colIdx < 0 || colIdx >= len(obj.Assembler.OutputNames) {
			return errs.Wrap(fmt.Errorf("%w| kept column index out of range", ErrFittedStateInvalid))
		}
	}
	return nil
}

func (obj *FittedState) chain() []ITransformer {
	return []ITransformer{obj.Ordinal, obj.Missing, obj.Rare, obj.TargetEnc, obj.Assembler, obj.Final}
}

// Preprocessor converts raw sale-record tables into the numeric matrix
// the regression model consumes. FitTransform produces the fitted state
// exactly once per training run; Transform reuses a state unmodified,
// so concurrent transforms against the same state are safe.
type Preprocessor struct {
	logger  *slog.Logger
	options PreprocessorOptions
}

func NewPreprocessor(logger *slog.Logger, options PreprocessorOptions) *Preprocessor {
	return &Preprocessor{
		logger:  logger,
		options: options,
	}
}

// FitTransform fits the whole chain on the training table and returns
// the training matrix with the fitted state. The secondary table, when
// given, only informs column classification; its rows never contribute
// to any fitted statistic. The target is required by the target encoder.
func (obj *Preprocessor) FitTransform(
	ctx context.Context,
	mem *memory.GoAllocator,
	train arrow.Record,
	secondary arrow.Record,
	target []float64,
) (arrow.Record, *FittedState, error) {

	deriverState, err := features.FitDeriver(train)
	if err != nil {
		return nil, nil, errs.Wrap(err)
	}

	trainAug, err := features.Derive(mem, train, deriverState)
	if err != nil {
		return nil, nil, errs.Wrap(err)
	}

	secondaryAug := trainAug
	if secondary != nil {
		secondaryAug, err = features.Derive(mem, secondary, deriverState)
		if err != nil {
			return nil, nil, errs.Wrap(err)
		}
	}

	roles, err := ClassifyColumns(trainAug, secondaryAug, obj.options.OrdinalOrders, elements.TargetColumn)
	if err != nil {
		return nil, nil, errs.Wrap(err)
	}
	obj.logger.Info(
		"classified columns",
		slog.Int("nominal", len(roles.Nominal)),
		slog.Int("ordinal", len(roles.Ordinal)),
		slog.Int("continuous", len(roles.Continuous)),
		slog.Int("missingProne", len(roles.MissingProne)),
	)

	state := &FittedState{
		Deriver:   deriverState,
		Roles:     roles,
		Ordinal:   NewOrdinalMapper(obj.options.OrdinalOrders),
		Missing:   NewMissingnessIndicator(),
		Rare:      NewRarePooler(roles.Nominal, obj.options.RareMinCount),
		TargetEnc: NewTargetEncoder(intersect(obj.options.TargetEncodeCols, roles.Nominal), obj.options.TargetEncodeAlpha),
		Assembler: NewGroupAssembler(roles),
		Final:     NewFinalizer(),
	}

	// stage fits are strictly sequential: each downstream fit sees the
	// previous stage's transform output
	current := trainAug
	for _, stage := range state.chain() {
		if err := stage.Fit(current, target); err != nil {
			return nil, nil, errs.Wrap(err)
		}
		current, err = stage.Transform(mem, current)
		if err != nil {
			return nil, nil, errs.Wrap(err)
		}
	}

	state.FeatureNames = make([]string, len(state.Final.KeepIdx))
	for i, colIdx := range state.Final.KeepIdx {
		state.FeatureNames[i] = state.Assembler.OutputNames[colIdx]
	}

	obj.logger.Info(
		"fitted preprocessing chain",
		slog.Int("numRows", int(current.NumRows())),
		slog.Int("numFeatures", len(state.FeatureNames)),
	)
	return current, state, nil
}

// Transform reapplies a fitted state to a new table: validation, test,
// batch inference or a single record. The state is read-only here.
func (obj *Preprocessor) Transform(
	ctx context.Context,
	mem *memory.GoAllocator,
	rec arrow.Record,
	state *FittedState,
) (arrow.Record, error) {

	if err := state.Validate(); err != nil {
		return nil, err
	}

	current, err := features.Derive(mem, rec, state.Deriver)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	for _, stage := range state.chain() {
		current, err = stage.Transform(mem, current)
		if err != nil {
			return nil, errs.Wrap(err)
		}
	}
	return current, nil
}

func intersect(cols, allowed []string) []string {
	allowedSet := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		allowedSet[name] = true
	}
	kept := make([]string, 0, len(cols))
	for _, name := range cols {
		if allowedSet[name] {
			kept = append(kept, name)
		}
	}
	return kept
}
