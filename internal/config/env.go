package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables read by ApplyEnv.
const (
	EnvOutputDir    = "NOWAY_OUTPUT_DIR"
	EnvMatchType    = "NOWAY_MATCH_TYPE"
	EnvConcurrency  = "NOWAY_CONCURRENCY"
	EnvFetchTimeout = "NOWAY_FETCH_TIMEOUT"
	EnvListTimeout  = "NOWAY_LIST_TIMEOUT"
	EnvUserAgent    = "NOWAY_USER_AGENT"
	EnvCDXEndpoint  = "NOWAY_CDX_ENDPOINT"
	EnvArchiveBase  = "NOWAY_ARCHIVE_BASE"
	EnvMetricsAddr  = "NOWAY_METRICS_ADDR"
)

// EnvString returns the trimmed value of key and whether it was set to
// something non-empty.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// EnvInt parses key as an integer. ok is false when the variable is unset.
func EnvInt(key string) (int, bool, error) {
	raw, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return value, true, nil
}

// EnvFloat parses key as a float. ok is false when the variable is unset.
func EnvFloat(key string) (float64, bool, error) {
	raw, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return value, true, nil
}

// ApplyEnv overrides settings from NOWAY_* environment variables.
// Timeouts are given in seconds.
func (s *Settings) ApplyEnv() error {
	stringVars := []struct {
		key string
		dst *string
	}{
		{EnvOutputDir, &s.OutputDir},
		{EnvMatchType, &s.MatchType},
		{EnvUserAgent, &s.UserAgent},
		{EnvCDXEndpoint, &s.CDXEndpoint},
		{EnvArchiveBase, &s.ArchiveBase},
		{EnvMetricsAddr, &s.MetricsAddr},
	}
	for _, e := range stringVars {
		if value, ok := EnvString(e.key); ok {
			*e.dst = value
		}
	}

	if value, ok, err := EnvInt(EnvConcurrency); err != nil {
		return err
	} else if ok {
		s.Concurrency = value
	}

	floatVars := []struct {
		key string
		dst *float64
	}{
		{EnvFetchTimeout, &s.FetchTimeoutSeconds},
		{EnvListTimeout, &s.ListTimeoutSeconds},
	}
	for _, e := range floatVars {
		if value, ok, err := EnvFloat(e.key); err != nil {
			return err
		} else if ok {
			*e.dst = value
		}
	}

	return nil
}
