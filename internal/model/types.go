package model

import "iter"

// Asset is a single entry of the API's asset catalog for one snap time.
type Asset struct {
	Name      string // Top-level asset class (e.g., "Rates")
	Service   string // Service within the asset class
	SubAsset  string // Sub-asset name, matched against configured asset types
	ID        string // API identifier used by file-history and export
	TraceName string // Identifier embedded in output filenames
}

// Label returns the "asset - sub-asset" form used in operator messages.
func (a Asset) Label() string {
	if a.Name == "" {
		return a.SubAsset
	}
	return a.Name + " - " + a.SubAsset
}

// Task is one (asset type, snap time) pair of a run.
type Task struct {
	AssetType string
	SnapTime  string
}

// Tasks yields the cartesian product of asset types and snap times,
// asset type outer, snap time inner. Input order is preserved.
func Tasks(assetTypes, snapTimes []string) iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, assetType := range assetTypes {
			for _, snapTime := range snapTimes {
				if !yield(Task{AssetType: assetType, SnapTime: snapTime}) {
					return
				}
			}
		}
	}
}

// TaskCount returns the number of tasks Tasks would yield.
func TaskCount(assetTypes, snapTimes []string) int {
	return len(assetTypes) * len(snapTimes)
}
