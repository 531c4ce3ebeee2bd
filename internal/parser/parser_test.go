package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/loglens/pkg/accesslog"
)

func TestParse_Valid(t *testing.T) {
	p := New(",")

	record, err := p.Parse("192.168.1.1,2025-02-25 12:34:56,/index.html,Chrome/91,200")
	require.NoError(t, err)

	assert.Equal(t, accesslog.Record{
		IP:        "192.168.1.1",
		Timestamp: "2025-02-25 12:34:56",
		URL:       "/index.html",
		UserAgent: "Chrome/91",
		Status:    200,
	}, record)
}

func TestParse_TrimsWhitespace(t *testing.T) {
	p := New(",")

	record, err := p.Parse(" 10.0.0.1 , 2025-02-25 12:00:00 , /about.html , Firefox/102 , 404 ")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", record.IP)
	assert.Equal(t, 404, record.Status)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{
			name: "too few fields",
			line: "192.168.1.1,2025-02-25 12:34:56,/index.html,200",
		},
		{
			name: "too many fields",
			line: "192.168.1.1,2025-02-25 12:34:56,/index.html,Chrome/91,200,extra",
		},
		{
			name: "non-numeric status",
			line: "192.168.1.1,2025-02-25 12:34:56,/index.html,Chrome/91,OK",
		},
		{
			name: "negative status",
			line: "192.168.1.1,2025-02-25 12:34:56,/index.html,Chrome/91,-1",
		},
		{
			name: "zero status",
			line: "192.168.1.1,2025-02-25 12:34:56,/index.html,Chrome/91,0",
		},
		{
			name: "empty field",
			line: "192.168.1.1,2025-02-25 12:34:56, ,Chrome/91,200",
		},
		{
			name: "blank line",
			line: "",
		},
	}

	p := New(",")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(tt.line)
			require.Error(t, err)

			var malformed *MalformedRecordError
			assert.ErrorAs(t, err, &malformed)
		})
	}
}

func TestParse_CustomDelimiter(t *testing.T) {
	p := New("|")

	record, err := p.Parse("192.168.1.1|2025-02-25 12:34:56|/index.html|Chrome/91|200")
	require.NoError(t, err)
	assert.Equal(t, "/index.html", record.URL)
}

func TestReadAll_SkipsMalformedLines(t *testing.T) {
	input := strings.Join([]string{
		"192.168.1.1,2025-02-25 12:34:56,/index.html,Chrome/91,200",
		"garbage line",
		"192.168.1.2,2025-02-25 12:35:01,/about.html,Safari/13,404",
		"",
		"192.168.1.1,2025-02-25 12:35:30,/index.html,Chrome/91,not-a-status",
	}, "\n")

	p := New(",")
	records, skipped, err := p.ReadAll(strings.NewReader(input))
	require.NoError(t, err)

	assert.Len(t, records, 2)
	assert.Equal(t, 3, skipped)
	assert.Equal(t, "/index.html", records[0].URL)
	assert.Equal(t, "/about.html", records[1].URL)
}

func TestReadAll_Empty(t *testing.T) {
	p := New(",")
	records, skipped, err := p.ReadAll(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, skipped)
}
