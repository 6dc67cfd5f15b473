package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrRateLimited la devuelven los clientes LLM ante un 429 o un
	// timeout (ambos se reintentan igual). Nunca llega al caller.
	ErrRateLimited = errors.New("rate limited")

	// ErrExtractionFailed: primario agotado y fallback también falló.
	ErrExtractionFailed = errors.New("extraction failed")
)

// OCRClient extrae texto crudo de una imagen.
type OCRClient interface {
	ExtractText(ctx context.Context, imageBase64 string) (string, error)
}

// ModelClient es un proveedor de chat-completion. Prompt lleva la
// instrucción de sistema y Content el texto del label.
type ModelClient interface {
	Complete(ctx context.Context, prompt, content string) (string, error)
}

const maxPrimaryAttempts = 3

// Pipeline encadena OCR -> modelo primario (con retry) -> fallback ->
// parser. No muta estado visible para el caller: cada Extract es una
// función pura de sus entradas más las respuestas de los proveedores.
type Pipeline struct {
	ocr      OCRClient
	primary  ModelClient
	fallback ModelClient
	log      zerolog.Logger

	sleep func(time.Duration)

	allowedForms       []string
	allowedFrequencies []string
}

func NewPipeline(ocr OCRClient, primary, fallback ModelClient, allowedForms, allowedFrequencies []string, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		ocr:      ocr,
		primary:  primary,
		fallback: fallback,
		log:      log,

		sleep: time.Sleep,

		allowedForms:       allowedForms,
		allowedFrequencies: allowedFrequencies,
	}
}

// Extract devuelve los campos detectados (posiblemente todos vacíos, que
// es un resultado válido cuando el OCR no encuentra texto usable) o
// ErrExtractionFailed si ambos proveedores se agotaron.
func (p *Pipeline) Extract(ctx context.Context, imageBase64 string) (ParsedFields, error) {
	var warnings []string

	// Un OCR caído no es fatal: seguimos con texto vacío, igual que si
	// la foto no tuviera texto legible.
	rawText, err := p.ocr.ExtractText(ctx, imageBase64)
	if err != nil {
		p.log.Warn().Err(err).Msg("ocr no disponible, se sigue con texto vacío")
		rawText = ""
	}
	if strings.TrimSpace(rawText) == "" {
		warnings = append(warnings, "no text was detected in the image")
	}

	prompt := buildPrompt(p.allowedForms, p.allowedFrequencies)

	response, err := p.queryPrimary(ctx, prompt, rawText)
	if err != nil {
		p.log.Warn().Err(err).Msg("proveedor primario agotado, probando fallback")

		// El fallback recibe todo aplanado en un único prompt, una sola
		// vez y sin retry.
		response, err = p.fallback.Complete(ctx, prompt+"\n\nLabel text:\n"+rawText, "")
		if err != nil {
			p.log.Error().Err(err).Msg("fallback también falló")
			return ParsedFields{}, ErrExtractionFailed
		}
	}

	out := parseStructuredResponse(response, p.allowedForms, p.allowedFrequencies)
	out.Warnings = append(warnings, out.Warnings...)
	return out, nil
}

// queryPrimary hace hasta 3 intentos. Solo el rate limit (o timeout,
// que tratamos igual) espera y reintenta: 1s tras el intento 1, 2s tras
// el 2. Cualquier otro error corta directo al fallback.
func (p *Pipeline) queryPrimary(ctx context.Context, prompt, content string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxPrimaryAttempts; attempt++ {
		response, err := p.primary.Complete(ctx, prompt, content)
		if err == nil {
			return response, nil
		}
		lastErr = err

		if !errors.Is(err, ErrRateLimited) {
			return "", err
		}
		if attempt < maxPrimaryAttempts {
			delay := time.Duration(1<<(attempt-1)) * time.Second
			p.log.Debug().
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("rate limit del primario, esperando para reintentar")
			p.sleep(delay)
		}
	}
	return "", lastErr
}

func buildPrompt(allowedForms, allowedFrequencies []string) string {
	return fmt.Sprintf(`You will receive raw text extracted from a medication label. Extract the fields below and answer with exactly these five lines, nothing else. Use the literal word null when a field cannot be determined.

- Medication Name: <name or null>
- Dosage: <amount or null>
- Dosage Form: <one of: %s, or null>
- Frequency: <one of: %s, or null>
- Instructions: <instructions or null>`,
		strings.Join(allowedForms, ", "),
		strings.Join(allowedFrequencies, ", "))
}
