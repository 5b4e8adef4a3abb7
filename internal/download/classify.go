package download

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rickgao/consensus-export/internal/api"
	"github.com/rickgao/consensus-export/internal/model"
)

// ConsensusRunLayout is the timestamp format the export endpoint expects.
const ConsensusRunLayout = "2006-01-02 15:04:05.000000"

// Result types embedded in output filenames.
const (
	ResultTypeValuation = "valuation_results"
	ResultTypeDQ        = "dq_results"
)

// Run identifies the consensus run to export for one asset.
type Run struct {
	ConsensusRunTimestamp string // Formatted with ConsensusRunLayout
	SubmissionTimestamp   string // Upload time of the submission used by that run
}

// ResultType returns the filename suffix for this run.
func (r Run) ResultType() string {
	if r.ConsensusRunTimestamp != "" {
		return ResultTypeValuation
	}
	return ResultTypeDQ
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTimestamp accepts the ISO variants the API emits. Fractional seconds
// are accepted after the seconds field for every layout.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// LatestRun picks the most recent consensus run across all history rows and
// the upload time of the row that fed it. ok is false when there is nothing
// to export, which is a skip rather than an error.
func LatestRun(rows []api.HistoryRow) (run Run, ok bool, err error) {
	var (
		latest    time.Time
		latestRow = -1
	)

	for i, row := range rows {
		for _, raw := range row.ConsensusRunTimestamps {
			ts, err := parseTimestamp(raw)
			if err != nil {
				return Run{}, false, err
			}
			if latestRow < 0 || ts.After(latest) {
				latest = ts
				latestRow = i
			}
		}
	}

	if latestRow < 0 || rows[latestRow].UploadedTime == "" {
		return Run{}, false, nil
	}

	return Run{
		ConsensusRunTimestamp: latest.Format(ConsensusRunLayout),
		SubmissionTimestamp:   rows[latestRow].UploadedTime,
	}, true, nil
}

// assetOutcome is the result of exporting one catalog entry.
type assetOutcome struct {
	file    string
	bytes   int64
	skipped bool
	err     error
}

// aggregate folds per-asset outcomes into a task outcome. Any failure fails
// the task; otherwise any written file makes it a download; otherwise skip.
func aggregate(outcomes []assetOutcome) (Outcome, []string, int64, error) {
	var (
		files []string
		bytes int64
		errs  []error
	)
	for _, o := range outcomes {
		switch {
		case o.err != nil:
			errs = append(errs, o.err)
		case !o.skipped:
			files = append(files, o.file)
			bytes += o.bytes
		}
	}

	switch {
	case len(errs) > 0:
		return Failed, files, bytes, errors.Join(errs...)
	case len(files) > 0:
		return Downloaded, files, bytes, nil
	default:
		return Skipped, nil, 0, nil
	}
}

// matchAssets returns catalog entries whose sub-asset equals assetType.
func matchAssets(catalog []model.Asset, assetType string) []model.Asset {
	return slices.DeleteFunc(slices.Clone(catalog), func(a model.Asset) bool {
		return a.SubAsset != assetType
	})
}
