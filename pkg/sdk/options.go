package taskdesk

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	actor        string
	keyPrefix    string
	maxBlobSize  int64
	atRiskWindow time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithActor sets the principal recorded as the author of mutations
// (task audit entries, form creator). Defaults to anonymous.
func WithActor(principal string) Option {
	return optionFunc(func(c *clientConfig) {
		c.actor = principal
	})
}

// WithKeyPrefix sets the database key prefix. Default: "taskdesk:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithMaxBlobSize sets the maximum accepted blob size in bytes.
// Default: 10 MiB.
func WithMaxBlobSize(size int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBlobSize = size
	})
}

// WithAtRiskWindow sets how long before its due date a task is reported
// as at risk. Default: 4 hours.
func WithAtRiskWindow(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.atRiskWindow = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
