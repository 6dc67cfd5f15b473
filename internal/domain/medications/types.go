package medications

// DosageForm define las formas de presentación soportadas.
// @Enum Tablet, Capsule, Liquid, Injection, Drops, Cream, Gel, Other
type DosageForm string

const (
	FormTablet    DosageForm = "Tablet"
	FormCapsule   DosageForm = "Capsule"
	FormLiquid    DosageForm = "Liquid"
	FormInjection DosageForm = "Injection"
	FormDrops     DosageForm = "Drops"
	FormCream     DosageForm = "Cream"
	FormGel       DosageForm = "Gel"
	FormOther     DosageForm = "Other"
)

// Frequency define las frecuencias de toma soportadas.
type Frequency string

const (
	FreqDaily          Frequency = "Daily"
	FreqEvery4Hours    Frequency = "Every 4 hours"
	FreqEvery8Hours    Frequency = "Every 8 hours"
	FreqEvery12Hours   Frequency = "Every 12 hours"
	FreqTwiceDaily     Frequency = "Twice Daily"
	FreqEverySecondDay Frequency = "Every second day"
	FreqWeekly         Frequency = "Weekly"
	FreqAsNeeded       Frequency = "As Needed"
)

var dosageForms = []DosageForm{
	FormTablet, FormCapsule, FormLiquid, FormInjection,
	FormDrops, FormCream, FormGel, FormOther,
}

var frequencies = []Frequency{
	FreqDaily, FreqEvery4Hours, FreqEvery8Hours, FreqEvery12Hours,
	FreqTwiceDaily, FreqEverySecondDay, FreqWeekly, FreqAsNeeded,
}

func ValidDosageForm(s string) bool {
	for _, f := range dosageForms {
		if string(f) == s {
			return true
		}
	}
	return false
}

func ValidFrequency(s string) bool {
	for _, f := range frequencies {
		if string(f) == s {
			return true
		}
	}
	return false
}

// AllowedDosageForms devuelve la enumeración como strings
// (la usa el pipeline de extracción para restringir al LLM).
func AllowedDosageForms() []string {
	out := make([]string, 0, len(dosageForms))
	for _, f := range dosageForms {
		out = append(out, string(f))
	}
	return out
}

func AllowedFrequencies() []string {
	out := make([]string, 0, len(frequencies))
	for _, f := range frequencies {
		out = append(out, string(f))
	}
	return out
}
