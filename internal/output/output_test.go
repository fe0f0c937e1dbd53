package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatError_AllFields(t *testing.T) {
	var stderr bytes.Buffer
	p := NewPrinter(&bytes.Buffer{}, &stderr, false, false)

	p.FormatError(&CLIError{
		Summary:    "not logged in",
		Detail:     "session is no longer valid",
		Suggestion: "Run 'fanfund login'",
		ExitCode:   ExitAuth,
	})

	out := stderr.String()
	assert.Contains(t, out, "[ERROR] not logged in")
	assert.Contains(t, out, "Cause: session is no longer valid")
	assert.Contains(t, out, "Suggestion: Run 'fanfund login'")
}

func TestFormatError_NoDetail(t *testing.T) {
	var stderr bytes.Buffer
	p := NewPrinter(&bytes.Buffer{}, &stderr, false, false)

	p.FormatError(&CLIError{Summary: "boom", ExitCode: ExitGeneral})
	assert.NotContains(t, stderr.String(), "Cause:")
}

func TestPrinter_QuietSuppressesChatter(t *testing.T) {
	var stdout, stderr bytes.Buffer
	p := NewPrinter(&stdout, &stderr, false, true)

	p.Info("hello")
	p.Success("done")
	p.Warning("careful")
	p.Header("Artists")
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())

	p.Print("result")
	assert.Equal(t, "result\n", stdout.String())
}

func TestParseColorMode(t *testing.T) {
	mode, err := ParseColorMode("never")
	require.NoError(t, err)
	assert.Equal(t, ColorNever, mode)
	assert.False(t, ResolveColors(mode))
	assert.True(t, ResolveColors(ColorAlways))

	_, err = ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "12.05 USD", Money(1205, "usd"))
	assert.Equal(t, "0.99", Money(99, ""))
	assert.Equal(t, "-1.00", Money(-100, ""))
}

func TestTable_Render(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"ID", "NAME"})
	table.AddRow("a-1", "Nova")
	table.AddRow("a-2", "Echo")
	require.NoError(t, table.Render())

	assert.Equal(t, 2, table.Len())
	assert.Contains(t, buf.String(), "Nova")
	assert.Contains(t, buf.String(), "Echo")
}

func TestStatusBadge_Plain(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{}, &bytes.Buffer{}, false, false)
	assert.Equal(t, "APPROVED", p.StatusBadge("APPROVED"))
}
