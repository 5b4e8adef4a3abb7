// Package download implements the export loop.
//
// For each (asset type, snap time) task, in order:
//   - resolve matching assets from the snap time's catalog
//   - find the latest consensus run in the asset's file history
//   - request an export link, fetch and decode it
//   - write {client}_{trace}_{date}_{time}_{result_type}.csv to the sink
//
// Every task yields exactly one Result (Downloaded, Skipped or Failed).
// Tasks run sequentially; a failed task never stops the run.
package download
