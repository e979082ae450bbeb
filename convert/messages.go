package convert

import "fmt"

// MessageCategory classifies conversion feedback.
type MessageCategory int

const (
	Exception MessageCategory = iota
	Error
	Warning
)

func (c MessageCategory) String() string {
	switch c {
	case Exception:
		return "exception"
	case Error:
		return "error"
	case Warning:
		return "warning"
	}
	return "unknown"
}

// MessageTable accumulates the problems hit while converting a recipe.
// Conversion keeps going past most problems; the table is how they
// reach the caller.
type MessageTable struct {
	messages map[MessageCategory][]string
}

func NewMessageTable() *MessageTable {
	return &MessageTable{messages: map[MessageCategory][]string{}}
}

func (t *MessageTable) AddMessage(category MessageCategory, message string) {
	t.messages[category] = append(t.messages[category], message)
}

// Messages returns the messages filed under a category, in the order
// they were added.
func (t *MessageTable) Messages(category MessageCategory) []string {
	out := make([]string, len(t.messages[category]))
	copy(out, t.messages[category])
	return out
}

func (t *MessageTable) Count(category MessageCategory) int {
	return len(t.messages[category])
}

// Summary renders a one-line tally of errors and warnings.
func (t *MessageTable) Summary() string {
	errCount := t.Count(Error)
	warnCount := t.Count(Warning)
	if errCount == 0 && warnCount == 0 {
		return "Conversion completed successfully"
	}
	return fmt.Sprintf("%d errors and %d warnings were found", errCount, warnCount)
}
