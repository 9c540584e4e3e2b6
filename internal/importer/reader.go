package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	enc "github.com/MrJamesThe3rd/tenantry/internal/encoding"
)

// Table is a decoded CSV file with blank rows removed.
type Table struct {
	Charset enc.Charset
	Headers []string
	Rows    [][]string
	lines   []int
}

// Line returns the 1-based line in the file that data row i came from.
func (t *Table) Line(i int) int {
	return t.lines[i]
}

// Read decodes r to UTF-8, sniffs the delimiter from the header line and
// splits the file into header and data rows.
func Read(r io.Reader) (*Table, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	t := &Table{Charset: charset}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		if blank(record) {
			continue
		}

		if t.Headers == nil {
			t.Headers = record
			continue
		}

		line, _ := reader.FieldPos(0)
		t.Rows = append(t.Rows, record)
		t.lines = append(t.lines, line)
	}

	if len(t.Headers) == 0 || len(t.Rows) == 0 {
		return nil, ErrEmpty
	}

	return t, nil
}

// sniffDelimiter picks the most frequent of ',', ';' and tab outside quotes
// on the first non-empty line.
func sniffDelimiter(data []byte) rune {
	first := ""

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			first = line
			break
		}
	}

	counts := map[rune]int{}
	quoted := false

	for _, r := range first {
		switch {
		case r == '"':
			quoted = !quoted
		case !quoted && (r == ',' || r == ';' || r == '\t'):
			counts[r]++
		}
	}

	best := ','
	for _, r := range []rune{';', '\t'} {
		if counts[r] > counts[best] {
			best = r
		}
	}

	return best
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
