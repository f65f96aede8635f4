package log

// API inspired by zerolog https://github.com/rs/zerolog

import (
	"context"
	"fmt"
	"time"
)

// Level defines log level.
type Level uint8

// Logging constants, matching ffmpeg.
const (
	LevelError   Level = 16
	LevelWarning Level = 24
	LevelInfo    Level = 32
	LevelDebug   Level = 48
)

// Event defines log event.
type Event struct {
	level  Level
	time   time.Time
	src    string // Source.
	replay string // Source replay name.

	logger *Logger
}

// Entry defines a log entry.
type Entry struct {
	Level  Level
	Time   time.Time
	Msg    string // Message.
	Src    string // Source.
	Replay string // Source replay name.
}

// Src sets event source.
func (e *Event) Src(source string) *Event {
	e.src = source
	return e
}

// Replay sets event replay name.
func (e *Event) Replay(name string) *Event {
	e.replay = name
	return e
}

// Time sets event time.
func (e *Event) Time(t time.Time) *Event {
	e.time = t
	return e
}

// Msg sends the *Event with msg added as the message field.
func (e *Event) Msg(msg string) {
	e.logger.feed <- Entry{
		Level:  e.level,
		Time:   e.time,
		Msg:    msg,
		Src:    e.src,
		Replay: e.replay,
	}
}

// Msgf sends the event with formatted msg added as the message field.
func (e *Event) Msgf(format string, v ...any) {
	e.Msg(fmt.Sprintf(format, v...))
}

// Feed defines feed of log entries.
type Feed <-chan Entry

// Logger logs.
type Logger struct {
	feed  chan Entry      // Feed of entries.
	sub   chan chan Entry // Subscribe requests.
	unsub chan chan Entry // Unsubscribe requests.
}

// NewLogger returns a Logger. Start must be called before any event is
// sent.
func NewLogger() *Logger {
	return &Logger{
		feed:  make(chan Entry),
		sub:   make(chan chan Entry),
		unsub: make(chan chan Entry),
	}
}

// Start runs the logger until ctx is canceled.
func (l *Logger) Start(ctx context.Context) {
	go func() {
		subs := map[chan Entry]struct{}{}
		for {
			select {
			case <-ctx.Done():
				return

			case ch := <-l.sub:
				subs[ch] = struct{}{}

			case ch := <-l.unsub:
				close(ch)
				delete(subs, ch)

			case entry := <-l.feed:
				for ch := range subs {
					ch <- entry
				}
			}
		}
	}()
}

// CancelFunc cancels log feed subscription.
type CancelFunc func()

// Subscribe returns a new chan with the log feed and a CancelFunc.
func (l *Logger) Subscribe() (Feed, CancelFunc) {
	feed := make(chan Entry)
	l.sub <- feed

	cancel := func() {
		l.unSubscribe(feed)
	}
	return feed, cancel
}

func (l *Logger) unSubscribe(feed chan Entry) {
	// Read feed until the unsub request is accepted.
	for {
		select {
		case l.unsub <- feed:
			return
		case <-feed:
		}
	}
}

// LogToStdout prints the log feed to stdout until ctx is canceled.
func (l *Logger) LogToStdout(ctx context.Context) {
	feed, cancel := l.Subscribe()
	defer cancel()
	for {
		select {
		case entry := <-feed:
			printEntry(entry)
		case <-ctx.Done():
			return
		}
	}
}

func printEntry(entry Entry) {
	var output string

	switch entry.Level {
	case LevelError:
		output += "[ERROR] "
	case LevelWarning:
		output += "[WARNING] "
	case LevelInfo:
		output += "[INFO] "
	case LevelDebug:
		output += "[DEBUG] "
	}

	if entry.Replay != "" {
		output += entry.Replay + ": "
	}
	if entry.Src != "" {
		output += entry.Src + ": "
	}

	output += entry.Msg
	fmt.Println(output)
}

// Error starts a new message with error level.
// You must call Msg on the returned event in order to send the event.
func (l *Logger) Error() *Event {
	return &Event{
		level:  LevelError,
		time:   time.Now(),
		logger: l,
	}
}

// Warn starts a new message with warn level.
// You must call Msg on the returned event in order to send the event.
func (l *Logger) Warn() *Event {
	return &Event{
		level:  LevelWarning,
		time:   time.Now(),
		logger: l,
	}
}

// Info starts a new message with info level.
// You must call Msg on the returned event in order to send the event.
func (l *Logger) Info() *Event {
	return &Event{
		level:  LevelInfo,
		time:   time.Now(),
		logger: l,
	}
}

// Debug starts a new message with debug level.
// You must call Msg on the returned event in order to send the event.
func (l *Logger) Debug() *Event {
	return &Event{
		level:  LevelDebug,
		time:   time.Now(),
		logger: l,
	}
}
