package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/lull/internal/ui/output"
)

func TestColorProfile_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.ColorProfile())
}

func TestNew_AsciiWritesPlainText(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer

	out := output.New(&buf)
	_, err := out.WriteString(out.String("hello").Foreground(termenv.RGBColor("#FF0000")).String())

	assert.NoError(t, err)
	assert.Equal(t, "hello", buf.String())
}

func TestNewWithProfile_UsesSelector(t *testing.T) {
	var buf bytes.Buffer

	out := output.NewWithProfile(&buf, func() termenv.Profile { return termenv.ANSI })

	assert.Equal(t, termenv.ANSI, out.Profile)
}

func TestNew_NilWriter(t *testing.T) {
	assert.NotNil(t, output.New(nil))
}
