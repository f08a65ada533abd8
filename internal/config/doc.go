// Package config provides configuration management for noway.
//
// This package handles:
//   - Default configuration values
//   - Loading and saving settings from JSON or YAML files
//   - Overrides from NOWAY_* environment variables
//   - Validation
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Prefix matching, 5 concurrent downloads, 15s per download
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/noway.yaml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Precedence
//
// Callers layer sources in this order, later wins:
//
//	defaults < config file < environment < command-line flags
//
// and finish with Validate.
package config
