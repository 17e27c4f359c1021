package logsvc

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/trezcool/eduplatform/core"
	"github.com/trezcool/eduplatform/core/user"
)

const (
	levelDebug = "DEBUG"
	levelInfo  = "INFO"
	levelWarn  = "WARN"
	levelError = "ERROR"
	levelFatal = "FATAL"
)

var exitFunc = os.Exit // mockable

// StdLogger writes entries to a standard library logger. Debug entries are dropped unless debug is set.
type StdLogger struct {
	std   *log.Logger
	debug bool
}

var _ core.Logger = (*StdLogger)(nil)

func NewStdLogger(std *log.Logger, debug bool) *StdLogger {
	return &StdLogger{std: std, debug: debug}
}

// New picks the Rollbar logger when a token is configured and falls back to StdLogger otherwise.
func New(std *log.Logger, conf *core.Config) core.Logger {
	if conf.RollbarToken != "" && !conf.TestMode {
		return NewRollbarLogger(std, conf)
	}
	return NewStdLogger(std, conf.Debug)
}

func printEntry(std *log.Logger, level, msg string, args []interface{}) {
	line := new(strings.Builder)
	fmt.Fprintf(line, "%-5s %s", level, msg)
	for _, arg := range args {
		switch v := arg.(type) {
		case user.Account:
			fmt.Fprintf(line, " account=%d", v.ID)
		case error:
			fmt.Fprintf(line, " error=%q", v.Error())
		case map[string]interface{}:
			for k, val := range v {
				fmt.Fprintf(line, " %s=%v", k, val)
			}
		default:
			fmt.Fprintf(line, " %v", v)
		}
	}
	std.Println(line.String())
}

func (l StdLogger) Debug(msg string, args ...interface{}) {
	if l.debug {
		printEntry(l.std, levelDebug, msg, args)
	}
}

func (l StdLogger) Info(msg string, args ...interface{}) {
	printEntry(l.std, levelInfo, msg, args)
}

func (l StdLogger) Warn(msg string, args ...interface{}) {
	printEntry(l.std, levelWarn, msg, args)
}

func (l StdLogger) Error(msg string, args ...interface{}) {
	printEntry(l.std, levelError, msg, args)
}

func (l StdLogger) Fatal(msg string, args ...interface{}) {
	printEntry(l.std, levelFatal, msg, args)
	exitFunc(1)
}
