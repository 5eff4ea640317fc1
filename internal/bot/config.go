package bot

// Config represents the configuration for the notification bot
type Config struct {
	// Chat that receives the digests
	ChatID int64
	// Maximum recommendations rendered per digest
	MaxDigestEntries int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() Config {
	return Config{
		MaxDigestEntries: 5,
	}
}
