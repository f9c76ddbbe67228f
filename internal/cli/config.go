package cli

import "strings"

// Environment variables read when the matching flag is not set.
const (
	EnvDebug     = "TURING_DEBUG"
	EnvSamples   = "TURING_SAMPLES"
	EnvRedisAddr = "TURING_REDIS_ADDR"
)

// DefaultDir is the sample directory used when neither --dir nor TURING_SAMPLES is set.
const DefaultDir = "samples"

// Config is the resolved configuration shared by commands.
type Config struct {
	Dir        string
	LogLevel   string
	LogFile    string
	RedisAddr  string
	SessionDir string
	Debug      bool
}

// ApplyEnv fills the fields left empty by flags from the environment, then
// applies defaults. Flags always win over the environment.
func (c Config) ApplyEnv(getenv func(string) string) Config {
	if c.Dir == "" {
		c.Dir = getenv(EnvSamples)
	}
	if c.Dir == "" {
		c.Dir = DefaultDir
	}
	if c.RedisAddr == "" {
		c.RedisAddr = getenv(EnvRedisAddr)
	}
	if v := strings.TrimSpace(getenv(EnvDebug)); v != "" && v != "0" && !strings.EqualFold(v, "false") {
		c.Debug = true
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
		if c.Debug {
			c.LogLevel = "debug"
		}
	}
	return c
}
