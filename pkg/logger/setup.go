package logger

// SetupLogger installs the default logger from CLI-level settings.
func SetupLogger(logLevel string, logJSON, logSource bool) {
	cfg := DefaultConfig()
	cfg.Level = LogLevel(logLevel)
	cfg.JSON = logJSON
	cfg.AddSource = logSource
	Init(cfg)
}
