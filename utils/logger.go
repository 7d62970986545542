package utils

import (
	"log"
	"os"
)

// LoggerConfig controls logger construction.
type LoggerConfig struct {
	// Output stream (defaults to os.Stdout)
	Output *os.File
	// Prefix printed before every line
	Prefix string
}

// InitLogger builds the application logger.
func InitLogger(config ...LoggerConfig) *log.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "[Learning Platform] "
	}

	return log.New(cfg.Output, cfg.Prefix, log.LstdFlags|log.LUTC)
}
