package preprocess

import (
	"fmt"
	"sort"

	"github.com/alekLukanen/errs"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"

	arrowops "github.com/alekLukanen/HousePricePipeline/arrowOps"
	"github.com/alekLukanen/HousePricePipeline/elements"
)

// RarePooler rewrites low-frequency category labels to a single
// catch-all label. The keep-set per column is decided once at fit time
// from training frequencies; any label outside it at transform time,
// including labels never seen in training, is pooled. Missing values are
// counted as a category of their own under the missing label.
type RarePooler struct {
	Cols     []string            `json:"cols"`
	MinCount int                 `json:"minCount"`
	Keep     map[string][]string `json:"keep"`
}

func NewRarePooler(cols []string, minCount int) *RarePooler {
	return &RarePooler{Cols: cols, MinCount: minCount}
}

func (obj *RarePooler) Fit(rec arrow.Record, target []float64) error {
	obj.Keep = make(map[string][]string)
	for _, name := range obj.Cols {
		if !arrowops.HasColumn(rec, name) {
			continue
		}
		labels, valid, err := arrowops.StringValues(rec, name)
		if err != nil {
			return errs.Wrap(err)
		}

		counts := make(map[string]int)
		for i, label := range labels {
			if !valid[i] {
				label = elements.MissingLabel
			}
			counts[label]++
		}

		kept := make([]string, 0, len(counts))
		for label, count := range counts {
			if count >= obj.MinCount {
				kept = append(kept, label)
			}
		}
		sort.Strings(kept)
		obj.Keep[name] = kept
	}
	return nil
}

func (obj *RarePooler) Transform(mem *memory.GoAllocator, rec arrow.Record) (arrow.Record, error) {
	if obj.Keep == nil {
		return nil, errs.Wrap(fmt.Errorf("%w| rare pooler", ErrNotFitted))
	}

	for _, name := range sortedKeys(obj.Keep) {
		keepSet := make(map[string]bool, len(obj.Keep[name]))
		for _, label := range obj.Keep[name] {
			keepSet[label] = true
		}

		labels, valid, err := arrowops.StringValues(rec, name)
		if err != nil {
			return nil, errs.Wrap(err, fmt.Errorf("%w| pooled column: %s", ErrColumnDrift, name))
		}

		pooled := make([]string, len(labels))
		for i, label := range labels {
			if !valid[i] {
				label = elements.MissingLabel
			}
			if keepSet[label] {
				pooled[i] = label
			} else {
				pooled[i] = elements.CatchAllLabel
			}
		}

		rec, err = arrowops.ReplaceColumn(rec, name, arrowops.NewStringArray(mem, pooled, nil))
		if err != nil {
			return nil, errs.Wrap(err)
		}
	}
	return rec, nil
}
