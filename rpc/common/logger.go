package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/mattn/go-isatty"
)

// LoggerNames lists every named logger of the application
var LoggerNames = []string{"store", "persist", "rpc", "session", "transport/rpc", "web", "client"}

// --------------------------------------------------------------------------
// Custom Logger (implements dragonboats logger.ILogger)
// --------------------------------------------------------------------------

// rediLogger implements the ILogger interface with custom formatting
type rediLogger struct {
	name   string
	mu     sync.RWMutex
	level  logger.LogLevel
	logger *log.Logger
}

func (l *rediLogger) SetLevel(level logger.LogLevel) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

func (l *rediLogger) enabled(level logger.LogLevel) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level >= level
}

func (l *rediLogger) Debugf(format string, args ...interface{}) {
	if l.enabled(logger.DEBUG) {
		l.log(debugTag, format, args...)
	}
}

func (l *rediLogger) Infof(format string, args ...interface{}) {
	if l.enabled(logger.INFO) {
		l.log(infoTag, format, args...)
	}
}

func (l *rediLogger) Warningf(format string, args ...interface{}) {
	if l.enabled(logger.WARNING) {
		l.log(warnTag, format, args...)
	}
}

func (l *rediLogger) Errorf(format string, args ...interface{}) {
	if l.enabled(logger.ERROR) {
		l.log(errorTag, format, args...)
	}
}

func (l *rediLogger) Panicf(format string, args ...interface{}) {
	if l.enabled(logger.CRITICAL) {
		panic(fmt.Sprintf(format, args...))
	}
}

// log formats and writes a log message. this internal helper is used by the public methods
func (l *rediLogger) log(tag levelTag, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("%s | %-15s | %s", tag.render(), l.name, message)
}

// --------------------------------------------------------------------------
// Level tags
// --------------------------------------------------------------------------

type levelTag struct {
	text  string
	color *color.Color
}

var (
	debugTag = levelTag{"DEBUG", color.New(color.FgHiBlack)}
	infoTag  = levelTag{"INFO", color.New(color.FgCyan)}
	warnTag  = levelTag{"WARN", color.New(color.FgYellow)}
	errorTag = levelTag{"ERROR", color.New(color.FgRed, color.Bold)}
)

// render pads before colouring so the columns stay aligned
func (t levelTag) render() string {
	return t.color.Sprint(fmt.Sprintf("%-5s", t.text))
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// logOutput is where all loggers write to
var logOutput io.Writer = os.Stdout

// CreateLogger implements the dragonboat logger.Factory
func CreateLogger(pkgName string) logger.ILogger {
	return &rediLogger{
		name:   pkgName,
		level:  logger.INFO,
		logger: log.New(logOutput, "", log.Ldate|log.Ltime),
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// ParseLogLevel converts a string level to logger.LogLevel
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, nil
	case "info", "":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return logger.INFO, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// colorEnabled decides on colored output for the modes auto, always and never
func colorEnabled(mode string, out *os.File) (bool, error) {
	switch strings.ToLower(mode) {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		fd := out.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd), nil
	default:
		return false, fmt.Errorf("invalid log color mode: %s. must be one of auto, always, never", mode)
	}
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// InitLoggers installs the custom logger factory and sets the level of all
// named loggers. colorMode is one of auto, always, never.
func InitLoggers(level, colorMode string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}
	useColor, err := colorEnabled(colorMode, os.Stdout)
	if err != nil {
		return err
	}
	color.NoColor = !useColor

	// Set as the global logger factory for Dragonboat
	logger.SetLoggerFactory(CreateLogger)

	for _, name := range LoggerNames {
		logger.GetLogger(name).SetLevel(lvl)
	}
	return nil
}
