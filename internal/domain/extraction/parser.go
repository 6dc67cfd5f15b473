package extraction

import (
	"strings"
	"unicode"
)

// ParsedFields es el resultado best-effort de una extracción. Todos los
// campos son opcionales: vacío significa "no detectado". Warnings informa
// degradaciones parciales (OCR sin texto, líneas no parseables) que no
// alcanzan para fallar la extracción completa.
type ParsedFields struct {
	Name         string   `json:"name"`
	Dosage       string   `json:"dosage"`
	DosageForm   string   `json:"dosage_form"`
	Frequency    string   `json:"frequency"`
	Instructions string   `json:"instructions"`
	Warnings     []string `json:"warnings,omitempty"`
}

const (
	labelName         = "Medication Name"
	labelDosage       = "Dosage"
	labelDosageForm   = "Dosage Form"
	labelFrequency    = "Frequency"
	labelInstructions = "Instructions"
)

// parseStructuredResponse interpreta la respuesta del modelo línea por
// línea. Gramática por línea: `label: value`, con un "- " opcional
// adelante. "null" o vacío cuentan como campo no provisto. Las líneas que
// no matchean no se descartan en silencio: quedan reportadas como warning
// de extracción parcial.
func parseStructuredResponse(text string, allowedForms, allowedFrequencies []string) ParsedFields {
	fields := map[string]string{}
	var unparsed []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		stripped := strings.TrimPrefix(line, "- ")
		label, value, ok := strings.Cut(stripped, ":")
		if !ok {
			unparsed = append(unparsed, line)
			continue
		}

		label = strings.TrimSpace(label)
		value = strings.TrimSpace(value)
		if value == "" || strings.EqualFold(value, "null") {
			continue
		}
		fields[label] = value
	}

	out := ParsedFields{
		Name:         titleCase(fields[labelName]),
		Dosage:       titleCase(fields[labelDosage]),
		Instructions: titleCase(fields[labelInstructions]),
		DosageForm:   matchAllowed(fields[labelDosageForm], allowedForms),
		Frequency:    matchAllowed(fields[labelFrequency], allowedFrequencies),
	}
	if len(unparsed) > 0 {
		out.Warnings = append(out.Warnings,
			"some response lines could not be parsed and were ignored")
	}
	return out
}

// matchAllowed acepta el valor solo si coincide exactamente con la
// enumeración permitida; cualquier otra cosa se trata como no provisto.
func matchAllowed(value string, allowed []string) string {
	for _, a := range allowed {
		if value == a {
			return a
		}
	}
	return ""
}

// titleCase capitaliza cada token separado por espacios y pasa el resto
// a minúsculas ("take with WATER" -> "Take With Water").
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
