package plot

import "strings"

// LogPolicy decides whether the error log survives a resample pass.
type LogPolicy uint8

const (
	// LogAccumulate keeps messages from every pass (deduplicated).
	LogAccumulate LogPolicy = iota
	// LogClearPerPass starts every resample pass with an empty log.
	LogClearPerPass
)

// LogEntry is the set of unique messages recorded for one element.
type LogEntry struct {
	Element  string
	Messages []string
}

// ErrorLog collects sample failures and coercion notes per element, in first
// seen order. Messages are deduplicated by exact match within an element.
type ErrorLog struct {
	order   []string
	entries map[string][]string
}

func NewErrorLog() *ErrorLog {
	return &ErrorLog{entries: make(map[string][]string)}
}

// Touch registers an element without a message.
func (l *ErrorLog) Touch(element string) {
	if _, ok := l.entries[element]; ok {
		return
	}
	l.order = append(l.order, element)
	l.entries[element] = nil
}

// Record appends msg under element unless it is already present. It reports
// whether the message was new.
func (l *ErrorLog) Record(element, msg string) bool {
	l.Touch(element)
	for _, m := range l.entries[element] {
		if m == msg {
			return false
		}
	}
	l.entries[element] = append(l.entries[element], msg)
	return true
}

// Messages returns the messages recorded for element.
func (l *ErrorLog) Messages(element string) []string {
	return append([]string(nil), l.entries[element]...)
}

// Entries returns every element with at least one message.
func (l *ErrorLog) Entries() []LogEntry {
	var out []LogEntry
	for _, name := range l.order {
		msgs := l.entries[name]
		if len(msgs) == 0 {
			continue
		}
		out = append(out, LogEntry{Element: name, Messages: append([]string(nil), msgs...)})
	}
	return out
}

// Len is the total number of messages.
func (l *ErrorLog) Len() int {
	n := 0
	for _, msgs := range l.entries {
		n += len(msgs)
	}
	return n
}

func (l *ErrorLog) Reset() {
	l.order = l.order[:0]
	l.entries = make(map[string][]string)
}

// Format renders the log as the body of the ignored-errors notice.
func (l *ErrorLog) Format() string {
	var b strings.Builder
	b.WriteString("ignored error (the associated point will not be displayed) :\n")
	for _, e := range l.Entries() {
		b.WriteString("- element ")
		b.WriteString(e.Element)
		b.WriteString(" :\n")
		for _, m := range e.Messages {
			b.WriteString("  - ")
			b.WriteString(m)
			b.WriteString("\n")
		}
	}
	return b.String()
}
