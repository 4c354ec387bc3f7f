package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

var logger = log.New()

func init() {
	// Stdout by default (container/systemd friendly); LOG_TO_FILE=true opts
	// into a dated file under ./logs.
	logger.Out = os.Stdout
	if os.Getenv("LOG_TO_FILE") == "true" {
		if f, err := openLogFile(); err != nil {
			log.Warnf("Failed to open log file: %v, keeping stdout", err)
		} else {
			logger.Out = f
		}
	}
	logger.Formatter = &log.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	}
	logger.SetLevel(log.DebugLevel)
}

func openLogFile() (*os.File, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	logsDir := filepath.Join(cwd, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s%s.log", time.Now().Format("2006-01-02"), os.Getenv("ENV"))
	return os.OpenFile(filepath.Join(logsDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
}

// GetLogger returns an entry annotated with the caller's location.
func GetLogger() *log.Entry {
	pc, file, line, _ := runtime.Caller(1)
	function := "unknown"
	if f := runtime.FuncForPC(pc); f != nil {
		function = f.Name()
	}
	return logger.WithFields(log.Fields{
		"service":  "skallars-social",
		"function": function,
		"file":     filepath.Base(file),
		"line":     line,
	})
}
