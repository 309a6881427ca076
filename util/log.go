package util

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Logger fans messages out to its sinks. It travels in a context so that library code only
// logs when the caller asked for it.
type Logger struct {
	sinks []Sink
	sync.Mutex
}

type Sink func(lvl Lvl, msg string)
type Lvl int

type loggerKey struct{}

const (
	DEBUG Lvl = iota
	INFO
	WARN
	ERROR
)

func Debugf(ctx context.Context, tpl string, args ...any) { Printf(ctx, DEBUG, tpl, args...) }
func Infof(ctx context.Context, tpl string, args ...any)  { Printf(ctx, INFO, tpl, args...) }
func Warnf(ctx context.Context, tpl string, args ...any)  { Printf(ctx, WARN, tpl, args...) }
func Errorf(ctx context.Context, tpl string, args ...any) { Printf(ctx, ERROR, tpl, args...) }

// WithLogger adds sinks to the logger of ctx, creating one if necessary.
func WithLogger(ctx context.Context, sinks ...Sink) context.Context {
	l, ok := GetLogger(ctx)
	if !ok {
		return context.WithValue(ctx, loggerKey{}, &Logger{sinks: sinks})
	}
	l.Lock()
	l.sinks = append(l.sinks, sinks...)
	l.Unlock()
	return ctx
}

func GetLogger(ctx context.Context) (*Logger, bool) {
	l, ok := ctx.Value(loggerKey{}).(*Logger)
	return l, ok
}

// MinLvl drops all messages below lvl.
func MinLvl(lvl Lvl, s Sink) Sink {
	return func(l Lvl, msg string) {
		if l >= lvl {
			s(l, msg)
		}
	}
}

// WriterSink writes one line per message: time, level and message.
func WriterSink(w io.Writer) Sink {
	return func(lvl Lvl, msg string) {
		fmt.Fprintf(w, "%s %-5s %s\n", time.Now().Format("15:04:05.000"), lvl, msg)
	}
}

func Printf(ctx context.Context, lvl Lvl, tpl string, args ...any) {
	if l, ok := GetLogger(ctx); ok {
		msg := fmt.Sprintf(tpl, args...)
		l.Lock()
		defer l.Unlock()
		for _, s := range l.sinks {
			s(lvl, msg)
		}
	}
}

func (l Lvl) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return fmt.Sprintf("LVL(%d)", int(l))
	}
}

func ParseLvl(s string) (Lvl, error) {
	for l := DEBUG; l <= ERROR; l++ {
		if strings.EqualFold(s, l.String()) {
			return l, nil
		}
	}
	return DEBUG, fmt.Errorf("bad log level: %q", s)
}
