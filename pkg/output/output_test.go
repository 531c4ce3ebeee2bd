package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/loglens/pkg/color"
)

func TestTableRenderTo(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	tbl := NewTable([]string{"source", "count"})
	tbl.AddRow([]string{"Chrome/91.0", "12"})
	tbl.AddRow([]string{"curl/7.68.0", "3"})

	var sb strings.Builder
	tbl.RenderTo(&sb)
	out := sb.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Contains(t, lines[0], "source")
	assert.Contains(t, lines[0], "count")
	assert.True(t, strings.HasPrefix(lines[1], "-----------"))
	assert.Contains(t, lines[2], "Chrome/91.0")
	assert.Contains(t, lines[3], "curl/7.68.0")
}

func TestTableColumnAlignment(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	tbl := NewTable([]string{"ip", "failures"})
	tbl.AddRow([]string{"192.168.100.15", "7"})

	var sb strings.Builder
	tbl.RenderTo(&sb)
	lines := strings.Split(sb.String(), "\n")

	// Header pads to the widest cell in the column.
	assert.True(t, strings.HasPrefix(lines[0], "ip            "))
	assert.True(t, strings.HasPrefix(lines[2], "192.168.100.15"))
}

func TestTableEmptyRows(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	tbl := NewTable([]string{"report", "rows"})

	var sb strings.Builder
	tbl.RenderTo(&sb)
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
}
