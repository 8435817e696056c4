package movespace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LoadJSON reads a vocabulary in either of the two shapes the model assets
// ship with: a flat array (index -> move) or an object (move -> index). The
// object form must use every index in [0, n) exactly once.
func LoadJSON(r io.Reader) (*Index, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrVocabulary)
	}

	switch b[0] {
	case '[':
		var moves []string
		if err := json.Unmarshal(b, &moves); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrVocabulary, err)
		}
		return New(moves)
	case '{':
		var dict map[string]int
		if err := json.Unmarshal(b, &dict); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrVocabulary, err)
		}
		moves := make([]string, len(dict))
		for m, i := range dict {
			if i < 0 || i >= len(dict) {
				return nil, fmt.Errorf("%w: index %d of %q outside [0,%d)", ErrVocabulary, i, m, len(dict))
			}
			if moves[i] != "" {
				return nil, fmt.Errorf("%w: index %d used by %q and %q", ErrVocabulary, i, moves[i], m)
			}
			moves[i] = m
		}
		return New(moves)
	default:
		return nil, fmt.Errorf("%w: expected a JSON array or object", ErrVocabulary)
	}
}

// LoadFile opens path and passes it to LoadJSON.
func LoadFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadJSON(f)
}

// SaveJSON writes the vocabulary as a flat array.
func (x *Index) SaveJSON(w io.Writer) error {
	return json.NewEncoder(w).Encode(x.moves)
}
