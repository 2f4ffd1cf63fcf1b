package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type BuildLogger struct {
	file       *os.File
	logger     *log.Logger
	multiWrite io.Writer
}

func NewBuildLogger(siteName string) (*BuildLogger, error) {
	// Sanitize site name for file system
	sanitizedSite := strings.ReplaceAll(strings.ToLower(siteName), " ", "_")
	sanitizedSite = strings.ReplaceAll(sanitizedSite, "/", "_")

	// Create logs directory if it doesn't exist
	logsDir := "logs"
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	// Create log file with timestamp
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(logsDir, fmt.Sprintf("build_%s_%s.log", sanitizedSite, timestamp))

	file, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	// Create multi-writer for both file and stdout
	multiWrite := io.MultiWriter(os.Stdout, file)
	logger := log.New(multiWrite, "", log.Ldate|log.Ltime|log.Lmicroseconds)

	return &BuildLogger{
		file:       file,
		logger:     logger,
		multiWrite: multiWrite,
	}, nil
}

func (bl *BuildLogger) LogInfo(format string, v ...interface{}) {
	bl.log("INFO", format, v...)
}

func (bl *BuildLogger) LogError(format string, v ...interface{}) {
	bl.log("ERROR", format, v...)
}

func (bl *BuildLogger) LogDebug(format string, v ...interface{}) {
	bl.log("DEBUG", format, v...)
}

func (bl *BuildLogger) log(level string, format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	bl.logger.Printf("[%s] %s", level, message)
}

func (bl *BuildLogger) Close() error {
	return bl.file.Close()
}
