package catalog

import (
	"strings"
	"testing"
)

func mustLoad(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestCatalogStructure(t *testing.T) {
	c := mustLoad(t)

	all := c.All()
	if len(all) == 0 {
		t.Fatal("el catálogo embebido no puede estar vacío")
	}
	for i, e := range all {
		if e.Name == "" {
			t.Errorf("entrada %d sin nombre", i)
		}
		if e.Brand == "" || e.Description == "" || e.Dosage == "" ||
			e.SideEffects == "" || e.ImportantInfo == "" {
			t.Errorf("entrada %d (%s) con campos vacíos", i, e.Name)
		}
	}
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	c := mustLoad(t)

	got := c.Search("")
	if len(got) != len(c.All()) {
		t.Fatalf("query vacía debe devolver todo, got %d de %d", len(got), len(c.All()))
	}
	// También con solo espacios.
	if len(c.Search("   ")) != len(c.All()) {
		t.Fatal("query de espacios debe tratarse como vacía")
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	c := mustLoad(t)

	lower := c.Search("amoxicillin")
	upper := c.Search("AMOXICILLIN")
	if len(lower) == 0 {
		t.Fatal("esperaba encontrar Amoxicillin")
	}
	if len(lower) != len(upper) {
		t.Fatal("la búsqueda debe ignorar mayúsculas")
	}
}

func TestSearchRanksNamePrefixAboveBrandPrefix(t *testing.T) {
	c := mustLoad(t)

	// "a" matchea Amoxicillin/Atorvastatin/Amlodipine por prefijo de
	// nombre y Advil (Ibuprofen) por prefijo de marca: los prefijos de
	// nombre van primero.
	got := c.Search("a")
	if len(got) < 2 {
		t.Fatalf("esperaba varios matches para 'a', got %d", len(got))
	}

	sawBrandMatch := false
	for _, e := range got {
		nameHasPrefix := strings.HasPrefix(strings.ToLower(e.Name), "a")
		if !nameHasPrefix {
			sawBrandMatch = true
		}
		if nameHasPrefix && sawBrandMatch {
			t.Fatalf("match por nombre después de uno por marca: %v", got)
		}
	}
	if !sawBrandMatch {
		t.Fatal("el fixture debería incluir al menos un match solo por marca")
	}
}

func TestSearchSubstringMatch(t *testing.T) {
	c := mustLoad(t)

	got := c.Search("cillin")
	if len(got) == 0 {
		t.Fatal("esperaba match por substring para 'cillin'")
	}
	for _, e := range got {
		name := strings.ToLower(e.Name)
		brand := strings.ToLower(e.Brand)
		if !strings.Contains(name, "cillin") && !strings.Contains(brand, "cillin") {
			t.Fatalf("match espurio: %s / %s", e.Name, e.Brand)
		}
	}
}

func TestSearchNoMatches(t *testing.T) {
	c := mustLoad(t)
	if got := c.Search("zzzzzz"); len(got) != 0 {
		t.Fatalf("esperaba 0 matches, got %d", len(got))
	}
}
