package main

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/dshills/dwg/internal/analyzer"
	"github.com/dshills/dwg/internal/config"
)

// loadAnalyzer resolves the config file (flag, DWG_CONFIG, then discovery in
// the working directory) and builds the analyzer from it.
func loadAnalyzer(configPath string, logger *log.Logger) (*analyzer.Analyzer, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, exitError(exitUsage, "failed to read working directory: %v", err)
	}

	cfg := config.Default()
	if path := config.Locate(configPath, cwd); path != "" {
		logger.Debug("loading config", "path", path)
		cfg, err = config.Load(path)
		if err != nil {
			return nil, exitError(exitUsage, "failed to load config: %v", err)
		}
	} else {
		logger.Debug("no config file found, using defaults")
	}

	a, err := analyzer.New(cfg)
	if err != nil {
		return nil, exitError(exitUsage, "invalid configuration: %v", err)
	}
	return a, nil
}
