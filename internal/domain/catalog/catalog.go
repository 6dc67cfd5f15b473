// Package catalog expone el catálogo estático de referencia de
// medicamentos que viene embebido en el binario.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

//go:embed medications.json
var medicationsJSON []byte

// Entry es una ficha de referencia; los nombres de campo JSON vienen del
// recurso original y se mantienen en camelCase.
type Entry struct {
	Name          string `json:"name"`
	Brand         string `json:"brand"`
	Description   string `json:"description"`
	Dosage        string `json:"dosage"`
	SideEffects   string `json:"sideEffects"`
	ImportantInfo string `json:"importantInfo"`
}

// Catalog es de solo lectura después de Load; se comparte sin locks.
type Catalog struct {
	entries []Entry
}

func Load() (*Catalog, error) {
	var entries []Entry
	if err := json.Unmarshal(medicationsJSON, &entries); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return &Catalog{entries: entries}, nil
}

// Search filtra por substring case-insensitive sobre nombre y marca.
// Orden: primero los matches por prefijo de nombre, después por prefijo
// de marca, después el resto; dentro de cada rango se conserva el orden
// del recurso. Query vacía devuelve el catálogo completo.
func (c *Catalog) Search(query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		out := make([]Entry, len(c.entries))
		copy(out, c.entries)
		return out
	}

	type ranked struct {
		entry Entry
		rank  int
	}
	var matches []ranked

	for _, e := range c.entries {
		name := strings.ToLower(e.Name)
		brand := strings.ToLower(e.Brand)

		switch {
		case strings.HasPrefix(name, q):
			matches = append(matches, ranked{e, 0})
		case strings.HasPrefix(brand, q):
			matches = append(matches, ranked{e, 1})
		case strings.Contains(name, q) || strings.Contains(brand, q):
			matches = append(matches, ranked{e, 2})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].rank < matches[j].rank
	})

	out := make([]Entry, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.entry)
	}
	return out
}

// All devuelve todas las fichas en el orden del recurso.
func (c *Catalog) All() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}
