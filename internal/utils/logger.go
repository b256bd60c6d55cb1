package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

type IngestLogger struct {
	file       *os.File
	logger     *log.Logger
	multiWrite io.Writer
}

// NewIngestLogger writes dataset load events to logs/ and stdout.
func NewIngestLogger() (*IngestLogger, error) {
	logsDir := "logs"
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(logsDir, fmt.Sprintf("ingest_%s.log", timestamp))

	file, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	// Create multi-writer for both file and stdout
	multiWrite := io.MultiWriter(os.Stdout, file)
	logger := log.New(multiWrite, "", log.Ldate|log.Ltime|log.Lmicroseconds)

	return &IngestLogger{
		file:       file,
		logger:     logger,
		multiWrite: multiWrite,
	}, nil
}

func (il *IngestLogger) LogInfo(format string, v ...interface{}) {
	il.log("INFO", format, v...)
}

func (il *IngestLogger) LogError(format string, v ...interface{}) {
	il.log("ERROR", format, v...)
}

func (il *IngestLogger) log(level string, format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	il.logger.Printf("[%s] %s", level, message)
}

func (il *IngestLogger) Close() error {
	return il.file.Close()
}
