package download

import "strings"

// FileName builds the output name for one exported result:
//
//	{client}_{trace_name}_{snap_date}_{snap_time}_{result_type}.csv
//
// Dashes in the date and spaces in the snap time become underscores,
// so "2024-07-31" / "London 4 PM" render as 2024_07_31 / London_4_PM.
func FileName(client, traceName, snapDate, snapTime, resultType string) string {
	return strings.Join([]string{
		client,
		traceName,
		strings.ReplaceAll(snapDate, "-", "_"),
		strings.ReplaceAll(snapTime, " ", "_"),
		resultType,
	}, "_") + ".csv"
}
