package utils

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// MessageType defines the color of a decorated CLI message.
type MessageType int

// The message types used across the CLI application.
const (
	DefaultMessage MessageType = iota
	SuccessMessage
	ErrorMessage
	StatusMessage
)

// ANSI colors used across the CLI application.
const (
	DefaultColor = "\x1b[0m"
	StatusColor  = "\x1b[36m"
	SuccessColor = "\x1b[32m"
	ErrorColor   = "\x1b[31m"
)

// NoColor disables the message decoration. It follows the NO_COLOR convention.
var NoColor = os.Getenv("NO_COLOR") != ""

var messageColors = map[MessageType]string{
	DefaultMessage: DefaultColor,
	SuccessMessage: SuccessColor,
	ErrorMessage:   ErrorColor,
	StatusMessage:  StatusColor,
}

// DecorateText wraps the message in the color of its type.
func DecorateText(s string, msgType MessageType) string {
	color, ok := messageColors[msgType]
	if !ok || NoColor {
		return s
	}
	return color + s + DefaultColor
}

// FormatTime formats a duration as days, hours, minutes and seconds,
// omitting the leading zero units.
func FormatTime(d time.Duration) string {
	days := int64(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int64(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int64(d / time.Minute)
	d -= time.Duration(minutes) * time.Minute

	var parts []string
	switch {
	case days > 0:
		parts = append(parts, fmt.Sprintf("%dd", days))
		fallthrough
	case hours > 0:
		parts = append(parts, fmt.Sprintf("%dh", hours))
		fallthrough
	case minutes > 0:
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%.2fs", d.Seconds()))

	return strings.Join(parts, " ")
}
