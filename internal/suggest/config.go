package suggest

import "time"

// Config holds suggestion generation settings.
type Config struct {
	Count       int           `mapstructure:"count"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`

	// MaxHistory bounds how many past activity titles go into the prompt.
	MaxHistory int `mapstructure:"max_history"`
}

// DefaultConfig returns sensible defaults for suggestion generation.
func DefaultConfig() Config {
	return Config{
		Count:       3,
		Timeout:     20 * time.Second,
		MaxTokens:   1500,
		Temperature: 0.8,
		MaxHistory:  5,
	}
}
