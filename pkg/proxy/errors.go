// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package proxy

import "fmt"

const (
	msgConfiguration   = "Server configuration error"
	msgInvalidResponse = "Invalid response from data source"
	msgInternal        = "Internal server error"
)

// ConfigurationError reports a required setting that is missing at request
// time.
type ConfigurationError struct {
	Setting string
	Err     error
}

// Error implements the error interface for ConfigurationError.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %v", e.Setting, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As checks.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// UpstreamParseError reports an upstream body that is not valid JSON.
type UpstreamParseError struct {
	Path   string // Path is the upstream path that produced the body.
	Status int    // Status is the upstream HTTP status.
	Err    error
}

// Error implements the error interface for UpstreamParseError.
func (e *UpstreamParseError) Error() string {
	return fmt.Sprintf("parse upstream response for %s (status %d): %v", e.Path, e.Status, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As checks.
func (e *UpstreamParseError) Unwrap() error {
	return e.Err
}

// upstreamError wraps a transport or read failure with the path it happened on.
type upstreamError struct {
	Path string
	Err  error
}

func (e *upstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Path, e.Err)
}

func (e *upstreamError) Unwrap() error {
	return e.Err
}
