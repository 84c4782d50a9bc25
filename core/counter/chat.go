package counter

import (
	"strconv"
	"strings"
)

// HelpText is the reply for an empty or "help" counter command.
const HelpText = "Control on screen counters. " +
	"\"!counter <action> <counter name>\". " +
	"Action can be: add, remove, ++, -- or a number to set the value. " +
	"Example 1, increase value of \"first counter\": !counter ++ first counter. " +
	"Example 2, add new counter with name \"new counter\": !counter add new counter."

// HandleChat applies a chat-issued counter command to the set. The message
// is everything after the "!counter" keyword. It returns a reply for the
// chat when one is due (currently only the help text); unparseable commands
// are silently dropped, chat is too noisy to echo errors into.
func (s *Set) HandleChat(msg string) (reply string, handled bool) {
	msg = strings.TrimSpace(msg)
	if msg == "" || strings.EqualFold(msg, "help") {
		return HelpText, true
	}

	action, name, ok := strings.Cut(msg, " ")
	if !ok {
		return "", false
	}
	action = strings.ToLower(strings.TrimSpace(action))
	name = strings.TrimSpace(name)
	if action == "" || name == "" {
		return "", false
	}

	switch action {
	case "add":
		s.Add(name)
	case "remove":
		s.Remove(name)
	case "++":
		s.Increase(name, 1)
	case "--":
		s.Decrease(name, 1)
	default:
		value, err := strconv.Atoi(action)
		if err != nil {
			return "", false
		}
		s.SetValue(name, value)
	}
	return "", true
}
