package book

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseCompact decodes "e2e4:70,d2d4:30".
func ParseCompact(s string) (map[string]int, error) {
	moves := make(map[string]int)
	for _, part := range strings.Split(s, ",") {
		colon := strings.IndexByte(part, ':')
		if colon < 0 {
			return nil, fmt.Errorf("%w: entry %q has no count", ErrSchema, part)
		}
		count, err := strconv.Atoi(part[colon+1:])
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q: %v", ErrSchema, part, err)
		}
		mv := part[:colon]
		if _, dup := moves[mv]; dup {
			return nil, fmt.Errorf("%w: move %s listed twice", ErrSchema, mv)
		}
		moves[mv] = count
	}
	return moves, nil
}

// FormatCompact is the inverse of ParseCompact for one key.
func (b *Book) FormatCompact(key string) string {
	parts := make([]string, 0, len(b.entries[key]))
	for _, c := range b.entries[key] {
		parts = append(parts, c.Move+":"+strconv.Itoa(c.Count))
	}
	return strings.Join(parts, ",")
}

func fromCompact(raw map[string]string) (*Book, error) {
	entries := make(map[string]map[string]int, len(raw))
	for key, val := range raw {
		moves, err := ParseCompact(val)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		entries[key] = moves
	}
	return New(entries)
}

// LoadJSON reads the compact JSON format: {"<key>": "e2e4:70,d2d4:30"}.
func LoadJSON(r io.Reader) (*Book, error) {
	var raw map[string]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return fromCompact(raw)
}

// LoadCSV reads key,move,count rows. A header row starting with "key" is
// skipped.
func LoadCSV(r io.Reader) (*Book, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	entries := make(map[string]map[string]int)
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: %v", ErrSchema, err)
		}
		if line == 1 && record[0] == "key" {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrSchema, line, err)
		}
		key, mv := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
		if entries[key] == nil {
			entries[key] = make(map[string]int)
		}
		entries[key][mv] += count
	}
	return New(entries)
}

// LoadFile picks the format from the extension: .csv or JSON otherwise.
func LoadFile(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open book: %w", err)
	}
	defer f.Close()
	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		return LoadCSV(f)
	}
	return LoadJSON(f)
}
