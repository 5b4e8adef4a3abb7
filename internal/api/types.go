package api

// AssetListRequest for POST /assets/list
type AssetListRequest struct {
	SnapTime string `json:"snap_time"`
}

// FileHistoryRequest for POST /file-history
type FileHistoryRequest struct {
	Client   string `json:"client"`
	AssetID  string `json:"asset_id"`
	FileDate string `json:"file_date"` // YYYY-MM-DD
	Limit    Limit  `json:"limit"`
	Offset   int    `json:"offset"`
}

// Limit is the API's page-size wrapper.
type Limit struct {
	Value int `json:"value"`
}

// DefaultHistoryLimit is the page size requested from /file-history.
const DefaultHistoryLimit = 100

// ExportRequest for POST /export
type ExportRequest struct {
	AssetID               string `json:"asset_id"`
	ConsensusRunTimestamp string `json:"consensus_run_timestamp"`
	SubmissionDate        string `json:"submission_date"`
	IncludeHeader         string `json:"includeHeader"` // "True" or "False"
}

// HistoryRow is one submission row from /file-history.
type HistoryRow struct {
	ConsensusRunTimestamps []string // Consensus runs that used this submission
	UploadedTime           string   // Submission upload time, verbatim from the API
}

// Column names in the /file-history table.
const (
	ColumnConsensusRuns = "Consensus Run Timestamps"
	ColumnUploadedTime  = "Uploaded Time"
)
