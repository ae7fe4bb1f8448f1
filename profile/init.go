package profile

// Stopper stops a running profiler and flushes its output.
type Stopper interface{ Stop() }

// Config selects a profiling mode and where its output is written.
type Config struct {
	Mode  string
	Path  string
	Quiet bool
}

// Option modifies a [Config].
type Option func(*Config)

// New returns a Config with the given options applied.
func New(opts ...Option) Config {
	var c Config

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// Start starts the profiler. It returns a no-op if Mode is empty, unknown or
// the binary was built without the pprof tag. Stop is always safe to call.
func (c Config) Start() Stopper {
	if c.Mode == "" {
		return ignore{}
	}

	return start(c)
}

// WithMode sets the profiling mode, one of [Modes].
func WithMode(mode string) Option {
	return func(c *Config) { c.Mode = mode }
}

// WithPath sets the directory profiles are written to.
func WithPath(path string) Option {
	return func(c *Config) { c.Path = path }
}

// WithQuiet suppresses the profiler's own log messages.
func WithQuiet(quiet bool) Option {
	return func(c *Config) { c.Quiet = quiet }
}

type ignore struct{}

func (ignore) Stop() {}
