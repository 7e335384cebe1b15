package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/grovetools/watchers/config"
	"github.com/grovetools/watchers/pkg/paths"
	"github.com/grovetools/watchers/util/pathutil"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

// NewLogger returns the shared logger for a component, building it on first use
// from the "logging" section of watchers.yml and the WATCHERS_LOG_* variables.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	var logCfg Config
	if cfg, err := config.LoadDefault(); err == nil {
		if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
			logrus.Warnf("Failed to parse 'logging' config: %v", err)
		}
	}

	entry := newLoggerFromConfig(component, logCfg, time.Now())
	loggers[component] = entry
	return entry
}

// Reset drops every cached logger so the next NewLogger call re-reads config.
func Reset() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	loggers = make(map[string]*logrus.Entry)
}

func newLoggerFromConfig(component string, logCfg Config, now time.Time) *logrus.Entry {
	logger := logrus.New()

	levelStr := "info"
	if env := os.Getenv("WATCHERS_LOG_LEVEL"); env != "" {
		levelStr = env
	} else if logCfg.Level != "" {
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if os.Getenv("WATCHERS_LOG_CALLER") == "true" || logCfg.ReportCaller {
		logger.SetReportCaller(true)
	}

	switch logCfg.Format.Preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: logCfg.Format})
	}

	var writers []io.Writer

	if file := openLogFile(component, logCfg.File, now); file != nil {
		if logCfg.File.Format == "json" && logCfg.Format.Preset != "json" {
			logger.AddHook(&fileHook{w: file, formatter: &logrus.JSONFormatter{}})
		} else {
			writers = append(writers, file)
		}
	}

	if shouldLogToStderr(logCfg.Format.StructuredToStderr, logger.GetLevel()) {
		writers = append(writers, GetGlobalOutput())
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}

	return logger.WithField("component", component)
}

// openLogFile opens the configured file sink, or the default daily file under
// paths.LogDir(). Failures on the default path are silent.
func openLogFile(component string, sink FileSinkConfig, now time.Time) *os.File {
	var logFilePath string
	if sink.Enabled && sink.Path != "" {
		logFilePath = pathutil.MustExpand(sink.Path)
	} else if dir := paths.LogDir(); dir != "" {
		logFilePath = filepath.Join(dir, fmt.Sprintf("%s-%s.log", component, now.Format("2006-01-02")))
	}
	if logFilePath == "" {
		return nil
	}

	dir := filepath.Dir(logFilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		if sink.Enabled {
			logrus.Warnf("Failed to create log directory %s: %v", dir, err)
		}
		return nil
	}

	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		if sink.Enabled {
			logrus.Warnf("Failed to open log file %s: %v", logFilePath, err)
		}
		return nil
	}
	return file
}

// shouldLogToStderr decides whether structured logs reach the terminal. In
// "auto" mode they do only when debugging or when stderr is not a terminal,
// so the TUI is not painted over.
func shouldLogToStderr(mode string, level logrus.Level) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	isDebug := os.Getenv("WATCHERS_DEBUG") == "1" || level >= logrus.DebugLevel
	isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return isDebug || !isInteractive
}

// LogFilePath returns today's default log file for a component.
func LogFilePath(component string) string {
	return filepath.Join(paths.LogDir(), fmt.Sprintf("%s-%s.log", component, time.Now().Format("2006-01-02")))
}

// fileHook writes every entry to a sink with its own formatter, so the file
// can be JSON while the terminal stays text.
type fileHook struct {
	w         io.Writer
	formatter logrus.Formatter
	mu        sync.Mutex
}

func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fileHook) Fire(entry *logrus.Entry) error {
	out, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.w.Write(out)
	return err
}
