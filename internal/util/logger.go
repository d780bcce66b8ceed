package util

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Log formats accepted by InitLogger
const (
	LogText   = "text"
	LogJSON   = "json"
	LogLogfmt = "logfmt"
)

var Logger *log.Logger

// badge is the "ArabStream" tag in front of every text line
func badge() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#0F766E")).
		Bold(true).
		Padding(0, 1).
		MarginRight(1).
		Render("ArabStream")
}

// InitLogger writes the log to stderr, keeping stdout for catalog output
func InitLogger(format string) {
	InitLoggerWithWriter(os.Stderr, format)
}

// InitLoggerWithWriter sets up the logger on w. Text lines carry the badge
// and colours; json and logfmt lines are plain and always timestamped so
// they can be piped. Unknown formats fall back to text.
func InitLoggerWithWriter(w io.Writer, format string) {
	opts := log.Options{
		ReportCaller:    IsDebug,
		ReportTimestamp: IsDebug,
		TimeFormat:      "15:04:05",
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case LogJSON:
		opts.Formatter = log.JSONFormatter
		opts.ReportTimestamp = true
		opts.TimeFormat = "2006-01-02T15:04:05Z07:00"
	case LogLogfmt:
		opts.Formatter = log.LogfmtFormatter
		opts.ReportTimestamp = true
		opts.TimeFormat = "2006-01-02T15:04:05Z07:00"
	default:
		opts.Prefix = badge()
	}

	Logger = log.NewWithOptions(w, opts)
	if opts.Formatter == log.TextFormatter {
		Logger.SetColorProfile(termenv.TrueColor)
	}
	if IsDebug {
		Logger.SetLevel(log.DebugLevel)
		Logger.Debug("Debug logging enabled")
	} else {
		Logger.SetLevel(log.InfoLevel)
	}
}

// Debug logs only in debug mode
func Debug(msg string, keyvals ...interface{}) {
	if IsDebug && Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// SiteLog logs on behalf of one provider: every line carries site=<name>.
// It reads the package logger at call time, so it can be created before
// InitLogger runs.
type SiteLog string

func (s SiteLog) Debug(msg string, keyvals ...interface{}) { Debug(msg, s.with(keyvals)...) }
func (s SiteLog) Info(msg string, keyvals ...interface{})  { Info(msg, s.with(keyvals)...) }
func (s SiteLog) Warn(msg string, keyvals ...interface{})  { Warn(msg, s.with(keyvals)...) }

func (s SiteLog) with(keyvals []interface{}) []interface{} {
	return append([]interface{}{"site", string(s)}, keyvals...)
}
