package logger

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.FatalLevel
	}
}

// ColoredLogger fans every level out to its own set of writers. Each level gets
// a zap core that only enables that exact level, so writers can be swapped per
// level the way SetErrorWriter needs.
type ColoredLogger struct {
	verbose bool
	mu      sync.RWMutex
	writers map[LogLevel][]io.Writer
	sugar   *zap.SugaredLogger
}

var globalLogger *ColoredLogger

func init() {
	globalLogger = &ColoredLogger{
		writers: make(map[LogLevel][]io.Writer),
	}
	for level := DEBUG; level <= FATAL; level++ {
		globalLogger.writers[level] = []io.Writer{os.Stdout}
	}
	globalLogger.rebuild()
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalColorLevelEncoder,
		EncodeTime:       zapcore.TimeEncoderOfLayout("[06-01-02 15:04:05]"),
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
}

// rebuild must be called with mu held (or during init).
func (cl *ColoredLogger) rebuild() {
	encoder := zapcore.NewConsoleEncoder(encoderConfig())
	cores := make([]zapcore.Core, 0, len(cl.writers))
	for level := DEBUG; level <= FATAL; level++ {
		ws := cl.writers[level]
		if len(ws) == 0 {
			continue
		}
		syncers := make([]zapcore.WriteSyncer, len(ws))
		for i, w := range ws {
			syncers[i] = zapcore.AddSync(w)
		}
		target := level.zapLevel()
		cores = append(cores, zapcore.NewCore(
			encoder,
			zapcore.NewMultiWriteSyncer(syncers...),
			zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l == target }),
		))
	}
	cl.sugar = zap.New(zapcore.NewTee(cores...)).Sugar()
}

func SetVerbose(verbose bool) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.verbose = verbose
}

func SetWriter(level LogLevel, writer io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.writers[level] = []io.Writer{writer}
	globalLogger.rebuild()
}

func SetWriterForAll(writer io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	for level := DEBUG; level <= FATAL; level++ {
		globalLogger.writers[level] = []io.Writer{writer}
	}
	globalLogger.rebuild()
}

func AddWriter(level LogLevel, writer io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.writers[level] = append(globalLogger.writers[level], writer)
	globalLogger.rebuild()
}

func AddWriterForAll(writer io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	for level := DEBUG; level <= FATAL; level++ {
		globalLogger.writers[level] = append(globalLogger.writers[level], writer)
	}
	globalLogger.rebuild()
}

func SetErrorWriter() {
	SetWriter(ERROR, os.Stderr)
	SetWriter(FATAL, os.Stderr)
}

// Sync flushes buffered log entries.
func Sync() {
	globalLogger.mu.RLock()
	sugar := globalLogger.sugar
	globalLogger.mu.RUnlock()
	_ = sugar.Sync()
}

func (cl *ColoredLogger) log(level LogLevel, format string, args ...interface{}) {
	cl.mu.RLock()
	if level == DEBUG && !cl.verbose {
		cl.mu.RUnlock()
		return
	}
	sugar := cl.sugar
	cl.mu.RUnlock()

	switch level {
	case DEBUG:
		sugar.Debugf(format, args...)
	case INFO:
		sugar.Infof(format, args...)
	case WARN:
		sugar.Warnf(format, args...)
	case ERROR:
		sugar.Errorf(format, args...)
	case FATAL:
		// zap's Fatal exits the process after writing
		sugar.Fatalf(format, args...)
	}
}

func Debug(format string, args ...interface{}) {
	globalLogger.log(DEBUG, format, args...)
}

func Info(format string, args ...interface{}) {
	globalLogger.log(INFO, format, args...)
}

func Warn(format string, args ...interface{}) {
	globalLogger.log(WARN, format, args...)
}

func Error(format string, args ...interface{}) {
	globalLogger.log(ERROR, format, args...)
}

func Fatal(format string, args ...interface{}) {
	globalLogger.log(FATAL, format, args...)
}

func GetLogFromLevel(level LogLevel) func(format string, args ...interface{}) {
	return func(format string, args ...interface{}) {
		globalLogger.log(level, format, args...)
	}
}
