package api

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
)

// FileHistory fetches the submission history for one asset on one file date.
func (c *Client) FileHistory(ctx context.Context, req FileHistoryRequest) ([]HistoryRow, error) {
	if req.Limit.Value == 0 {
		req.Limit.Value = DefaultHistoryLimit
	}

	body, err := c.post(ctx, "/file-history", req)
	if err != nil {
		return nil, fmt.Errorf("file history %s: %w", req.AssetID, err)
	}

	rows, err := parseHistory(body)
	if err != nil {
		return nil, fmt.Errorf("file history %s: %w", req.AssetID, err)
	}
	return rows, nil
}

// parseHistory reads the tabular data.columns / data.rows shape.
// Rows are positional: values[i] belongs to columns[i].
func parseHistory(body []byte) ([]HistoryRow, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json", ErrUnrecognizedPayload)
	}

	data := gjson.GetBytes(body, "data")
	columns := data.Get("columns")
	rows := data.Get("rows")
	if !columns.IsArray() || !rows.IsArray() {
		return nil, ErrUnrecognizedPayload
	}

	runsIdx, uploadedIdx := -1, -1
	for i, col := range columns.Array() {
		switch col.Get("columnName").String() {
		case ColumnConsensusRuns:
			runsIdx = i
		case ColumnUploadedTime:
			uploadedIdx = i
		}
	}

	out := make([]HistoryRow, 0, len(rows.Array()))
	for _, row := range rows.Array() {
		values := row.Get("values").Array()

		var hr HistoryRow
		if runsIdx >= 0 && runsIdx < len(values) {
			hr.ConsensusRunTimestamps = stringList(values[runsIdx])
		}
		if uploadedIdx >= 0 && uploadedIdx < len(values) {
			hr.UploadedTime = values[uploadedIdx].String()
		}
		out = append(out, hr)
	}

	return out, nil
}

// stringList accepts either a JSON array or a single scalar, dropping empty entries.
func stringList(v gjson.Result) []string {
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}

	items := []gjson.Result{v}
	if v.IsArray() {
		items = v.Array()
	}

	var out []string
	for _, item := range items {
		if item.Type == gjson.Null {
			continue
		}
		if s := item.String(); s != "" {
			out = append(out, s)
		}
	}
	return out
}
