package listview

import "fmt"

const (
	// DefaultPageSize is the default number of rows per page when not specified.
	DefaultPageSize = 10

	// DefaultMaxPageSize is the default maximum page size allowed.
	// This protects the backend from unreasonably large page requests typed into the URL.
	DefaultMaxPageSize = 100
)

// PageConfig holds page size configuration options.
// Use NewPageConfig() to create a config with sensible defaults,
// then customize using the With* methods.
//
// Example:
//
//	config := listview.NewPageConfig().WithDefaultSize(25).WithMaxSize(200)
//	limit := config.EffectiveLimit(state.PageSize)
type PageConfig struct {
	// DefaultSize is the page size used when none is requested.
	DefaultSize int `yaml:"default_size" default:"10" validate:"gt=0"`

	// MaxSize is the maximum allowed page size. Requests exceeding this
	// will be capped to MaxSize (not rejected).
	MaxSize int `yaml:"max_size" default:"100" validate:"gtefield=DefaultSize"`
}

// NewPageConfig creates a PageConfig with sensible defaults:
// - DefaultSize: 10
// - MaxSize: 100
func NewPageConfig() *PageConfig {
	return &PageConfig{
		DefaultSize: DefaultPageSize,
		MaxSize:     DefaultMaxPageSize,
	}
}

// WithDefaultSize sets the default page size and returns the config for chaining.
func (c *PageConfig) WithDefaultSize(size int) *PageConfig {
	if size > 0 {
		c.DefaultSize = size
	}
	return c
}

// WithMaxSize sets the maximum page size and returns the config for chaining.
func (c *PageConfig) WithMaxSize(size int) *PageConfig {
	if size > 0 {
		c.MaxSize = size
	}
	return c
}

// Default returns the configured default page size, falling back to DefaultPageSize.
func (c *PageConfig) Default() int {
	if c == nil || c.DefaultSize <= 0 {
		return DefaultPageSize
	}
	return c.DefaultSize
}

// Max returns the configured maximum page size, falling back to DefaultMaxPageSize.
func (c *PageConfig) Max() int {
	if c == nil || c.MaxSize <= 0 {
		return DefaultMaxPageSize
	}
	return c.MaxSize
}

// EffectiveLimit returns the page size to use, applying defaults and caps.
// - If size is zero or negative, returns the default size
// - If size exceeds the maximum, returns the maximum
// - Otherwise returns size
func (c *PageConfig) EffectiveLimit(size int) int {
	if size <= 0 {
		return c.Default()
	}
	return min(size, c.Max())
}

// Validate checks if the page size exceeds MaxSize and returns an error if so.
// Unlike EffectiveLimit which caps silently, Validate returns an error for
// explicit rejection of invalid requests.
func (c *PageConfig) Validate(size int) error {
	if c == nil {
		return nil
	}

	if size > c.Max() {
		return &PageSizeError{
			Requested: size,
			Maximum:   c.Max(),
		}
	}

	return nil
}

// PageSizeError is returned when the requested page size exceeds the maximum allowed.
type PageSizeError struct {
	Requested int
	Maximum   int
}

func (e *PageSizeError) Error() string {
	return fmt.Sprintf("requested page size %d exceeds maximum allowed page size of %d",
		e.Requested, e.Maximum)
}
