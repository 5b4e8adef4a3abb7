// Package api provides the consensus valuation API client.
//
// REST endpoints (selected by mode):
//   - prod:     https://clearconsensus.io/apigw/api/v1
//   - metadata: https://metadata.cfvr.io/apigw/api/v1
//
// Every request carries x-api-key and a freshly minted x-api-token.
// Export files are served from a pre-signed link as base64-encoded gzip.
package api
