// Package model defines shared data types used across the exporter.
//
// Conventions:
//   - Asset types match the API's sub-asset names (e.g., "Swaptions", "Caps & Floors")
//   - Snap times are the API's display names (e.g., "London 4 PM")
//   - Snap dates are ISO calendar dates (YYYY-MM-DD)
package model
