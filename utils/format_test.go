package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat_Time(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("0.00s", FormatTime(0))
	assert.Equal("1.50s", FormatTime(1500*time.Millisecond))
	assert.Equal("2m 3.00s", FormatTime(2*time.Minute+3*time.Second))
	assert.Equal("1h 0m 5.00s", FormatTime(time.Hour+5*time.Second))
	assert.Equal("2d 0h 0m 0.00s", FormatTime(48*time.Hour))
}

func TestFormat_DecorateText(t *testing.T) {
	defer func(v bool) { NoColor = v }(NoColor)

	NoColor = false
	assert.Equal(t, ErrorColor+"failed"+DefaultColor, DecorateText("failed", ErrorMessage))
	assert.Equal(t, "plain", DecorateText("plain", MessageType(42)))

	NoColor = true
	assert.Equal(t, "failed", DecorateText("failed", ErrorMessage))
}
