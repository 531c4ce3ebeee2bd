// Package parser turns raw delimited access log lines into typed records.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/telhawk-systems/loglens/pkg/accesslog"
)

// fieldCount is the number of delimited fields in a well-formed line:
// ip, timestamp, url, user_agent, status.
const fieldCount = 5

// MalformedRecordError describes a single unparseable log line.
type MalformedRecordError struct {
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record: %s", e.Reason)
}

// Parser converts delimited access log lines into records.
type Parser struct {
	delimiter string
}

// New creates a parser for the given field delimiter. An empty delimiter
// defaults to comma.
func New(delimiter string) *Parser {
	if delimiter == "" {
		delimiter = ","
	}
	return &Parser{delimiter: delimiter}
}

// Parse converts one raw line into a record. It fails with
// *MalformedRecordError when the field count is wrong, any field is empty
// after trimming, or the status is not a positive integer.
func (p *Parser) Parse(line string) (accesslog.Record, error) {
	fields := strings.Split(line, p.delimiter)
	if len(fields) != fieldCount {
		return accesslog.Record{}, &MalformedRecordError{
			Reason: fmt.Sprintf("expected %d fields, got %d", fieldCount, len(fields)),
		}
	}

	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
		if fields[i] == "" {
			return accesslog.Record{}, &MalformedRecordError{
				Reason: fmt.Sprintf("empty field at position %d", i+1),
			}
		}
	}

	status, err := strconv.Atoi(fields[4])
	if err != nil {
		return accesslog.Record{}, &MalformedRecordError{
			Reason: fmt.Sprintf("status %q is not an integer", fields[4]),
		}
	}
	if status <= 0 {
		return accesslog.Record{}, &MalformedRecordError{
			Reason: fmt.Sprintf("status %d is not positive", status),
		}
	}

	return accesslog.Record{
		IP:        fields[0],
		Timestamp: fields[1],
		URL:       fields[2],
		UserAgent: fields[3],
		Status:    status,
	}, nil
}

// ReadAll parses every line from r. Malformed lines (blank lines included)
// are skipped and counted so a single corrupt line never loses the rest of
// the dataset. The returned error reports only reader failures.
func (p *Parser) ReadAll(r io.Reader) ([]accesslog.Record, int, error) {
	var (
		records []accesslog.Record
		skipped int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		record, err := p.Parse(scanner.Text())
		if err != nil {
			skipped++
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return records, skipped, fmt.Errorf("read log source: %w", err)
	}

	return records, skipped, nil
}
