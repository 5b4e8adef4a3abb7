// Package writer implements output sinks for downloaded result files.
//
// Sinks:
//   - DirSink: local directory, create-or-overwrite (default: working directory)
//   - BucketSink: any gocloud.dev/blob bucket (file://, s3://, gs://, mem://)
//
// Writes are whole-file and single-writer; there is no locking.
package writer
