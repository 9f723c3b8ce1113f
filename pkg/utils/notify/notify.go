package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	fcolor "github.com/fatih/color"
	"github.com/geostack-dev/geostack/pkg/utils/timer"
)

// Message kinds.
const (
	// ErrorType is rendered red with a ✗ prefix.
	ErrorType MessageType = iota
	// WarningType is rendered yellow with a ⚠ prefix.
	WarningType
	// ActivityType is rendered in the default color with a ► prefix.
	ActivityType
	// SuccessType is rendered green with a ✔ prefix.
	SuccessType
	// InfoType is rendered blue with an ℹ prefix.
	InfoType
	// TitleType is rendered bold with an emoji prefix.
	TitleType
)

// defaultTitleEmoji is used for titles that do not set Emoji.
const defaultTitleEmoji = "ℹ️"

// MessageType selects the styling of a Message.
type MessageType int

// Message is a single status line.
type Message struct {
	Type    MessageType
	Content string
	Args    []any
	// Timer, when set on a SuccessType message, appends a timing block.
	Timer timer.Timer
	// Emoji replaces the default title emoji for TitleType messages.
	Emoji string
	// Writer defaults to os.Stdout.
	Writer io.Writer
}

type style struct {
	symbol string
	color  *fcolor.Color
}

//nolint:gochecknoglobals // immutable lookup table
var styles = map[MessageType]style{
	ErrorType:    {symbol: "✗ ", color: fcolor.New(fcolor.FgRed)},
	WarningType:  {symbol: "⚠ ", color: fcolor.New(fcolor.FgYellow)},
	ActivityType: {symbol: "► ", color: fcolor.New(fcolor.Reset)},
	SuccessType:  {symbol: "✔ ", color: fcolor.New(fcolor.FgGreen)},
	InfoType:     {symbol: "ℹ ", color: fcolor.New(fcolor.FgBlue)},
	TitleType:    {symbol: "", color: fcolor.New(fcolor.Reset, fcolor.Bold)},
}

// Errorf writes an error line.
func Errorf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ErrorType, Content: format, Args: args, Writer: writer})
}

// Warningf writes a warning line.
func Warningf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: WarningType, Content: format, Args: args, Writer: writer})
}

// Activityf writes an activity line. By convention activity text is lowercase.
func Activityf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: ActivityType, Content: format, Args: args, Writer: writer})
}

// Successf writes a success line.
func Successf(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: SuccessType, Content: format, Args: args, Writer: writer})
}

// SuccessWithTimerf writes a success line followed by the timer's current and total durations.
func SuccessWithTimerf(writer io.Writer, tmr timer.Timer, format string, args ...any) {
	WriteMessage(Message{Type: SuccessType, Content: format, Args: args, Timer: tmr, Writer: writer})
}

// Infof writes an informational line.
func Infof(writer io.Writer, format string, args ...any) {
	WriteMessage(Message{Type: InfoType, Content: format, Args: args, Writer: writer})
}

// Titlef writes a stage title prefixed with emoji.
func Titlef(writer io.Writer, emoji, format string, args ...any) {
	WriteMessage(Message{
		Type:    TitleType,
		Content: fmt.Sprintf(format, args...),
		Emoji:   emoji,
		Writer:  writer,
	})
}

// WriteMessage renders msg. Write failures are reported on stderr and otherwise ignored.
func WriteMessage(msg Message) {
	writer := msg.Writer
	if writer == nil {
		writer = os.Stdout
	}

	content := msg.Content
	if len(msg.Args) > 0 {
		content = fmt.Sprintf(msg.Content, msg.Args...)
	}

	st, ok := styles[msg.Type]
	if !ok {
		st = style{color: fcolor.New(fcolor.Reset)}
	}

	if msg.Type == TitleType {
		emoji := msg.Emoji
		if emoji == "" {
			emoji = defaultTitleEmoji
		}

		reportWriteError(st.color.Fprintf(writer, "%s %s\n", emoji, content))

		return
	}

	content = indentContinuationLines(content, st.symbol)
	reportWriteError(st.color.Fprintf(writer, "%s%s\n", st.symbol, content))

	if msg.Type == SuccessType && msg.Timer != nil {
		total, stage := msg.Timer.GetTiming()

		reportWriteError(st.color.Fprintf(writer, "⏲ current: %s\n", stage.String()))
		reportWriteError(st.color.Fprintf(writer, "  total:  %s\n", total.String()))
	}
}

func reportWriteError(_ int, err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "notify: failed to print message: %v\n", err)
	}
}

// indentContinuationLines aligns the lines after the first with the text after the symbol.
func indentContinuationLines(content, symbol string) string {
	if symbol == "" || !strings.Contains(content, "\n") {
		return content
	}

	indent := strings.Repeat(" ", len([]rune(symbol)))
	lines := strings.Split(content, "\n")

	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}

	return strings.Join(lines, "\n")
}
