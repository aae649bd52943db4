// Package config provides configuration management for osccli.
//
// # Configuration Sources
//
// Configuration is built from the following sources in increasing order of
// precedence:
//
//	1. Default values (Default)
//	2. A YAML file (--config, osccli.yaml or configs/osccli.yaml)
//	3. Environment variables
//
// # Environment Variables
//
// All environment variables use the OSC_ prefix followed by the section:
//
//	OSC_DATA_DIR=/srv/oscillation
//	OSC_DATA_PATTERNS="*.csv,*.xlsx"
//	OSC_PIPELINE_WORKERS=4
//	OSC_PIPELINE_INTERPOLATION=time
//	OSC_EXPORT_DIR=/srv/exports
//	OSC_LOGGING_LEVEL=debug
//	OSC_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/osccli.prom
//
// ResolvePaths turns the configured directories into absolute paths and
// names default export files.
//
// The loaded configuration is validated with go-playground/validator struct
// tags; any failure is returned as an apperrors CONFIG error.
package config
