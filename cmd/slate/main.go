// cmd/slate/main.go
package main

import (
	"fmt"
	stlog "log" // Standard log for fatal errors before the logger is ready
	"os"

	"github.com/bethropolis/slate/internal/app"
	"github.com/bethropolis/slate/internal/config"
	"github.com/bethropolis/slate/internal/logger"
)

var version = "dev"

func main() {
	// --- Argument & Flag Parsing ---
	var flags config.Flags
	flags.ParseFlags()

	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, version)
		os.Exit(0)
	}

	// --- Configuration ---
	cfg, cfgErr := config.LoadConfig(*flags.ConfigFilePath, &flags)

	// --- Logger Initialization ---
	logFilePath := cfg.Logger.LogFilePath
	if logFilePath == "" {
		logFilePath = config.DefaultLogFileName
	}
	logOutput := os.Stderr
	if logFilePath != "-" {
		logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			stlog.Fatalf("Failed to open log file '%s': %v", logFilePath, err)
		}
		defer logFile.Close()
		logOutput = logFile
	}
	logger.Init(cfg.Logger, logOutput)
	logger.SetFilterDebug(*flags.DebugLog)

	logger.Infof("Starting %s %s...", config.AppName, version)
	logger.Debugf("Log level: %s, log file: %s", cfg.Logger.LogLevel, logFilePath)
	if cfgErr != nil {
		logger.Warnf("Config: %v (using defaults)", cfgErr)
	}

	// --- Create and Run App ---
	slateApp, err := app.NewApp(cfg, nil)
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		os.Exit(1)
	}

	configPath := *flags.ConfigFilePath
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := slateApp.WatchConfig(configPath, &flags); err != nil {
				logger.Warnf("Config: Not watching %s: %v", configPath, err)
			}
		}
	}

	if err := slateApp.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		os.Exit(1)
	}

	logger.Infof("%s finished.", config.AppName)
}
