// Package rosterfile reads and writes rosters as YAML or JSON documents and
// generates synthetic rosters for load testing.
package rosterfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/okian/matchmaker/internal/domain/types"
	"gopkg.in/yaml.v3"
)

// ErrDecode is returned when a roster document cannot be parsed.
var ErrDecode = errors.New("decode roster")

// Load reads and validates the roster at path. YAML and JSON are both
// accepted since JSON is a subset of YAML.
func Load(path string) (types.Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Roster{}, fmt.Errorf("open roster %s: %w", path, err)
	}
	defer f.Close()

	r, err := Decode(f)
	if err != nil {
		return types.Roster{}, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Decode parses a single roster document. Unknown keys are rejected.
func Decode(r io.Reader) (types.Roster, error) {
	var roster types.Roster
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&roster); err != nil {
		if errors.Is(err, io.EOF) {
			return types.Roster{}, fmt.Errorf("%w: empty document", ErrDecode)
		}
		return types.Roster{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := roster.Validate(); err != nil {
		return types.Roster{}, err
	}
	return roster, nil
}

// Encode writes roster as YAML.
func Encode(w io.Writer, roster types.Roster) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(roster); err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}
	return enc.Close()
}
