// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	envAPIKey                 = "API_KEY"
	envUpstreamURL            = "STATS_UPSTREAM_URL"
	envHostIdentifier         = "STATS_UPSTREAM_HOST_ID"
	envListenAddr             = "STATS_LISTEN_ADDR"
	envRequestTimeout         = "STATS_REQUEST_TIMEOUT"
	envInsecureSkipVerify     = "STATS_UPSTREAM_INSECURE"
	envLogLevel               = "STATS_LOG_LEVEL"
	envServerReadTimeout      = "STATS_SERVER_READ_TIMEOUT"
	envServerWriteTimeout     = "STATS_SERVER_WRITE_TIMEOUT"
	envServerIdleTimeout      = "STATS_SERVER_IDLE_TIMEOUT"
	envGracefulShutdown       = "STATS_GRACEFUL_SHUTDOWN"
	envLambdaFunctionName     = "AWS_LAMBDA_FUNCTION_NAME"
	defaultUpstreamURL        = "https://v1.formula-1.api-sports.io"
	defaultListenAddr         = "127.0.0.1:8080"
	defaultLogLevel           = "info"
	defaultServerReadTimeout  = 30 * time.Second
	defaultServerWriteTimeout = 30 * time.Second
	defaultServerIdleTimeout  = 120 * time.Second
	defaultGracefulShutdown   = 10 * time.Second
)

// DefaultHostIdentifier is the x-rapidapi-host value expected by API-Sports.
// It stays fixed when STATS_UPSTREAM_URL points somewhere else, such as a
// local mock.
const DefaultHostIdentifier = "v1.formula-1.api-sports.io"

// DotEnvFile is loaded into the process environment before Load reads it.
// Values already present in the environment take precedence.
var DotEnvFile = ".env"

// Config captures runtime settings for the proxy. It is built once at
// startup and treated as read-only afterwards.
type Config struct {
	// APIKey is the upstream secret. An empty key is not a load error; the
	// proxy reports it on every request instead.
	APIKey             string
	Upstream           *url.URL
	HostIdentifier     string // sent as x-rapidapi-host
	ListenAddr         string
	RequestTimeout     time.Duration // zero leaves the deadline to the caller's context
	InsecureSkipVerify bool
	LogLevel           string
	// Lambda is true when the process runs inside the AWS Lambda runtime.
	Lambda                  bool
	ServerReadTimeout       time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	GracefulShutdownTimeout time.Duration
}

// Load reads configuration from the environment (after merging DotEnvFile, if
// present) and validates the values that must be well formed.
func Load() (Config, error) {
	if err := loadDotEnv(DotEnvFile); err != nil {
		return Config{}, err
	}

	upstream, err := parseUpstream(getString(envUpstreamURL, defaultUpstreamURL))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIKey:                  strings.TrimSpace(os.Getenv(envAPIKey)),
		Upstream:                upstream,
		HostIdentifier:          getString(envHostIdentifier, DefaultHostIdentifier),
		ListenAddr:              getString(envListenAddr, defaultListenAddr),
		RequestTimeout:          getDuration(envRequestTimeout, 0),
		InsecureSkipVerify:      getBool(envInsecureSkipVerify, false),
		LogLevel:                strings.ToLower(getString(envLogLevel, defaultLogLevel)),
		Lambda:                  os.Getenv(envLambdaFunctionName) != "",
		ServerReadTimeout:       getDuration(envServerReadTimeout, defaultServerReadTimeout),
		ServerWriteTimeout:      getDuration(envServerWriteTimeout, defaultServerWriteTimeout),
		ServerIdleTimeout:       getDuration(envServerIdleTimeout, defaultServerIdleTimeout),
		GracefulShutdownTimeout: getDuration(envGracefulShutdown, defaultGracefulShutdown),
	}

	return cfg, nil
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func parseUpstream(raw string) (*url.URL, error) {
	upstream, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", envUpstreamURL, err)
	}
	if !upstream.IsAbs() || upstream.Host == "" {
		return nil, fmt.Errorf("%s must be absolute (scheme://host)", envUpstreamURL)
	}
	return upstream, nil
}

func getString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
