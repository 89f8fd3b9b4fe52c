package dashboard

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var embeddedSeed []byte

// LoadSeed reads sample boards from path, or the embedded seed when path is
// empty.
func LoadSeed(path string) (Boards, error) {
	data := embeddedSeed
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return Boards{}, fmt.Errorf("read seed: %w", err)
		}
	}
	return ParseSeed(data)
}

// ParseSeed decodes and checks a YAML seed. Unknown keys are rejected.
func ParseSeed(data []byte) (Boards, error) {
	var b Boards
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil && !errors.Is(err, io.EOF) {
		return Boards{}, fmt.Errorf("decode seed: %w", err)
	}
	if err := b.check(); err != nil {
		return Boards{}, fmt.Errorf("invalid seed: %w", err)
	}
	return b, nil
}

func (b Boards) check() error {
	ids := map[string]bool{}
	for _, d := range b.Parent.Declarations {
		if err := uniqueID("parent", d.ID, ids); err != nil {
			return err
		}
		if !slices.Contains(ParentStatuses(), d.Statut) {
			return fmt.Errorf("parent declaration %s: unknown status %q", d.ID, d.Statut)
		}
	}
	clear(ids)
	for _, d := range b.Mairie {
		if err := uniqueID("mairie", d.ID, ids); err != nil {
			return err
		}
		if !slices.Contains(MairieStatuses(), d.Statut) {
			return fmt.Errorf("mairie declaration %s: unknown status %q", d.ID, d.Statut)
		}
		if d.Completude < 0 || d.Completude > 100 {
			return fmt.Errorf("mairie declaration %s: completude %d out of range", d.ID, d.Completude)
		}
	}
	clear(ids)
	for _, r := range b.Hopital {
		if err := uniqueID("hopital", r.ID, ids); err != nil {
			return err
		}
		if !slices.Contains(HopitalStatuses(), r.Statut) {
			return fmt.Errorf("hopital request %s: unknown status %q", r.ID, r.Statut)
		}
	}
	return nil
}

func uniqueID(board, id string, seen map[string]bool) error {
	if id == "" {
		return fmt.Errorf("%s: entry without id", board)
	}
	if seen[id] {
		return fmt.Errorf("%s: duplicate id %q", board, id)
	}
	seen[id] = true
	return nil
}
