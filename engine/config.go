package engine

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the engine-tunable defaults that can be set once from an
// optional TOML file at startup and then overridden at runtime by UCI
// `setoption` commands, in line with the UCI surface's "out-of-range option
// value: clamp silently" error-handling rule.
type Config struct {
	HashSizeMB int `toml:"hash_size_mb"`
	Threads    int `toml:"threads"`
	// Contempt biases the draw score (in centipawns, from the side to
	// move's perspective) away from or toward a draw.
	Contempt int32 `toml:"contempt"`
	// AspirationWindow overrides the initial half-width used by
	// searchAspiration; zero keeps the package default.
	AspirationWindow int32 `toml:"aspiration_window"`
}

// Minimum and maximum bounds every Config field is clamped to, shared by
// both TOML loading and UCI setoption handling so the two surfaces can
// never disagree about a legal range.
const (
	MinHashSizeMB = 1
	MaxHashSizeMB = 65536
	MinThreads    = 1
	MaxThreads    = 256
)

// DefaultConfig returns the engine's built-in defaults, used when no TOML
// file is supplied and before any setoption overrides are applied.
func DefaultConfig() Config {
	return Config{
		HashSizeMB:       DefaultHashTableSizeMB,
		Threads:          1,
		Contempt:         0,
		AspirationWindow: initialAspiration,
	}
}

// LoadConfig reads and decodes a TOML configuration file, seeding any field
// left at its zero value with DefaultConfig's value and clamping every
// field into its valid range. A missing file returns DefaultConfig together
// with the os.Stat error; callers that treat the file as optional can ignore
// an error for which os.IsNotExist(err) is true.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); err != nil {
		return cfg, err
	}
	var loaded Config
	if _, err := toml.DecodeFile(path, &loaded); err != nil {
		return cfg, err
	}
	if loaded.HashSizeMB != 0 {
		cfg.HashSizeMB = loaded.HashSizeMB
	}
	if loaded.Threads != 0 {
		cfg.Threads = loaded.Threads
	}
	cfg.Contempt = loaded.Contempt
	if loaded.AspirationWindow != 0 {
		cfg.AspirationWindow = loaded.AspirationWindow
	}
	cfg.clamp()
	return cfg, nil
}

// clamp restricts every field to its documented valid range, silently
// correcting out-of-range values rather than rejecting them.
func (c *Config) clamp() {
	c.HashSizeMB = Clamp(c.HashSizeMB, MinHashSizeMB, MaxHashSizeMB)
	c.Threads = Clamp(c.Threads, MinThreads, MaxThreads)
	c.AspirationWindow = Clamp(c.AspirationWindow, int32(1), int32(500))
}

// SetHashSizeMB clamps and stores a new hash size, used by the UCI `Hash`
// option.
func (c *Config) SetHashSizeMB(mb int) {
	c.HashSizeMB = Clamp(mb, MinHashSizeMB, MaxHashSizeMB)
}

// SetThreads clamps and stores a new thread count, used by the UCI
// `Threads` option.
func (c *Config) SetThreads(n int) {
	c.Threads = Clamp(n, MinThreads, MaxThreads)
}
