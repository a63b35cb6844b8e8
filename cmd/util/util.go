package util

import (
	"bytes"
	"fmt"
	"os"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/buger/goterm"
	log "github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/8cylinder/toolbox/pkg/errors"
	"github.com/8cylinder/toolbox/pkg/runner"
)

// Mocked out for unit testing.
var exit = os.Exit

// HandleFatalError logs the given error and exits. Errors with a friendly
// message are shown without their internal context.
func HandleFatalError(err error) {
	log.WithError(err).Debug("Fatal error")
	log.Error(errors.GetPrintableMessage(err))
	exit(1)
}

// HandlePanic logs the panic and its stack trace, and exits. It must be
// deferred directly.
func HandlePanic() {
	if r := recover(); r != nil {
		log.WithField("stack", string(debug.Stack())).Debug("Stack trace")
		log.Errorf("Unexpected panic: %v", r)
		exit(1)
	}
}

// SetupLogging configures the standard logger for the CLI. Output is colored
// when stderr is a terminal, and timestamped otherwise.
func SetupLogging(verbose bool) {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	isTTY := term.IsTerminal(int(os.Stderr.Fd()))
	log.SetFormatter(&Formatter{
		Color:      isTTY,
		Timestamps: !isTTY,
	})
}

var levelColors = map[log.Level]int{
	log.DebugLevel: goterm.CYAN,
	log.InfoLevel:  goterm.BLUE,
	log.WarnLevel:  goterm.YELLOW,
	log.ErrorLevel: goterm.RED,
	log.FatalLevel: goterm.WHITE,
	log.PanicLevel: goterm.WHITE,
}

const (
	commandLabel    = "CMD"
	commandColor    = goterm.GREEN
	timestampFormat = "2006-01-02 15:04:05"
	timestampColor  = goterm.RED
)

// Formatter renders log entries as `LEVEL: message key=value...`. Entries
// carrying a command line are shown with the CMD label and the command as the
// message.
type Formatter struct {
	Color      bool
	Timestamps bool
}

// Format implements the logrus.Formatter interface.
func (f *Formatter) Format(entry *log.Entry) ([]byte, error) {
	label := levelLabel(entry.Level)
	color, ok := levelColors[entry.Level]
	if !ok {
		color = goterm.WHITE
	}

	message := entry.Message
	fields := entry.Data
	if command, ok := entry.Data[runner.CommandField]; ok {
		label, color = commandLabel, commandColor
		message = fmt.Sprint(command)
		fields = withoutKey(entry.Data, runner.CommandField)
	}

	b := &bytes.Buffer{}
	if f.Timestamps {
		f.write(b, entry.Time.Format(timestampFormat), timestampColor, false)
		b.WriteString("  ")
	}
	f.write(b, fmt.Sprintf("%-6s", label+":"), color, true)
	b.WriteString(" ")
	f.write(b, message, color, false)

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(b, " %s=%v", key, fields[key])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func (f *Formatter) write(b *bytes.Buffer, s string, color int, bold bool) {
	if !f.Color {
		b.WriteString(s)
		return
	}

	s = goterm.Color(s, color)
	if bold {
		s = goterm.Bold(s)
	}
	b.WriteString(s)
}

func levelLabel(level log.Level) string {
	switch level {
	case log.WarnLevel:
		return "WARN"
	default:
		return strings.ToUpper(level.String())
	}
}

func withoutKey(fields log.Fields, key string) log.Fields {
	filtered := log.Fields{}
	for k, v := range fields {
		if k != key {
			filtered[k] = v
		}
	}
	return filtered
}
