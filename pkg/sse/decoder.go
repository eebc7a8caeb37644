// Package sse decodes server-sent-event framed streams: blank-line-delimited
// records of `event:`, `id:` and `data:` header lines, with one JSON document
// per record on the data line.
package sse

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// Record is one decoded event.
type Record struct {
	Event string
	ID    string
	Data  json.RawMessage
}

// Decoder reads records from a live stream. Incomplete trailing records are
// buffered across read boundaries, so a partial record is never surfaced.
type Decoder struct {
	scanner *bufio.Scanner
}

func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(splitRecords)

	return &Decoder{scanner: scanner}
}

// Next returns the next record carrying a parseable JSON payload. Records
// with a malformed or missing data line are skipped. Returns io.EOF when the
// stream ends cleanly, or the underlying read error otherwise.
func (d *Decoder) Next() (Record, error) {
	for d.scanner.Scan() {
		rec, ok := parseRecord(d.scanner.Text())
		if !ok {
			continue
		}
		return rec, nil
	}

	if err := d.scanner.Err(); err != nil {
		return Record{}, err
	}
	return Record{}, io.EOF
}

// splitRecords tokenizes the stream on blank lines (LF or CRLF framing).
func splitRecords(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	// Both framings can coexist in one buffer; the earliest terminator wins
	// so no record is swallowed by a later one.
	lf := bytes.Index(data, []byte("\n\n"))
	crlf := bytes.Index(data, []byte("\r\n\r\n"))
	if crlf >= 0 && (lf < 0 || crlf < lf) {
		return crlf + 4, data[:crlf], nil
	}
	if lf >= 0 {
		return lf + 2, data[:lf], nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func parseRecord(raw string) (Record, bool) {
	if strings.TrimSpace(raw) == "" {
		return Record{}, false
	}

	var rec Record
	hasData := false

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")

		switch {
		case strings.HasPrefix(line, "event:"):
			rec.Event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "id:"):
			rec.ID = strings.TrimSpace(strings.TrimPrefix(line, "id:"))
		case strings.HasPrefix(line, "data:"):
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if json.Valid([]byte(payload)) {
				rec.Data = json.RawMessage(payload)
				hasData = true
			}
		}
	}

	// A record without a parsed payload is dropped entirely.
	if !hasData {
		return Record{}, false
	}
	return rec, true
}
