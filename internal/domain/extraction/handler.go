package extraction

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"medtrack/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, p *Pipeline) {
	r.Post("/extract", extractHandler(p))
}

type extractRequest struct {
	// Imagen del label en base64 (sin prefijo data:).
	ImageBase64 string `json:"image_base64"`
}

// extractHandler godoc
// @Summary Extraer campos desde una foto de label
// @Description Corre el pipeline OCR + LLM y devuelve los campos
// detectados. Un resultado con todos los campos vacíos es válido (foto
// sin texto legible); el 502 se reserva para proveedores agotados.
// @Tags extraction
// @Accept json
// @Produce json
// @Param payload body extractRequest true "Imagen en base64"
// @Success 200 {object} ParsedFields
// @Failure 400 {string} string "invalid json / imagen faltante"
// @Failure 401 {string} string "unauthorized"
// @Failure 502 {string} string "extraction failed"
// @Router /extract [post]
func extractHandler(p *Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if p == nil {
			http.Error(w, "extraction is not configured", http.StatusServiceUnavailable)
			return
		}

		var req extractRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.ImageBase64) == "" {
			http.Error(w, "image_base64 is required", http.StatusBadRequest)
			return
		}

		fields, err := p.Extract(r.Context(), req.ImageBase64)
		if err != nil {
			if errors.Is(err, ErrExtractionFailed) {
				http.Error(w, "failed to process image text", http.StatusBadGateway)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, fields)
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
