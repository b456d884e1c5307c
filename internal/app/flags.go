package app

import "flag"

// Config represents the command-line parameters for the GUI application.
type Config struct {
	Rules       string
	Snapshot    string
	Width       int
	Height      int
	Rate        int
	Seed        int64
	Soup        bool
	SoupDensity float64
	MetricsAddr string
	Verbose     bool
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Rules:       "rules/replicator.json",
		Width:       1280,
		Height:      720,
		Rate:        10,
		Seed:        42,
		SoupDensity: 0.33,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Rules, "rules", c.Rules, "rule configuration file")
	fs.StringVar(&c.Snapshot, "snapshot", c.Snapshot, "snapshot to restore on startup")
	fs.IntVar(&c.Width, "width", c.Width, "window width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "window height in pixels")
	fs.IntVar(&c.Rate, "rate", c.Rate, "simulation speed in generations per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for the random soup")
	fs.BoolVar(&c.Soup, "soup", c.Soup, "seed a random soup on startup")
	fs.Float64Var(&c.SoupDensity, "soup-density", c.SoupDensity, "cell density of the random soup")
	fs.StringVar(&c.MetricsAddr, "metrics-addr", c.MetricsAddr, "address to serve Prometheus metrics on (empty disables)")
	fs.BoolVar(&c.Verbose, "verbose", c.Verbose, "enable debug logging")
}
