// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation,
// so credentials can be kept out of the file. An optional dotenv file is loaded into
// the environment before expansion (see LoadEnvFile).
//
// Example:
//
//	api:
//	  mode: metadata
//	  api_key: ${CONSENSUS_API_KEY}
//	  api_secret: ${CONSENSUS_API_SECRET}
//	run:
//	  client: ACME
//	  snap_date: "2024-07-31"
//	  snap_times: ["London 4 PM", "New York 4 PM"]
//	  asset_types: ["Swaptions", "Caps & Floors", "Forwards", "Options"]
package config
