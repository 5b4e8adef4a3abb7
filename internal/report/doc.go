// Package report renders run results for operators.
//
// Console prints one line per task (success, skip or error) as results arrive.
// WriteWorkbook saves an XLSX summary of a finished run.
package report
