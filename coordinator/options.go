package coordinator

import (
	"go.uber.org/zap"

	"github.com/nrfta/listview-go"
)

// Option configures a Coordinator.
type Option func(*options)

type options struct {
	logger     *zap.Logger
	cacheSize  int
	pageConfig *listview.PageConfig
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCacheSize sets how many pages are memoized. Zero disables the cache.
func WithCacheSize(size int) Option {
	return func(o *options) {
		o.cacheSize = max(size, 0)
	}
}

// WithPageConfig sets the page size default and cap applied to every state.
func WithPageConfig(config *listview.PageConfig) Option {
	return func(o *options) {
		if config != nil {
			o.pageConfig = config
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:     zap.NewNop(),
		cacheSize:  DefaultCacheSize,
		pageConfig: listview.NewPageConfig(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
