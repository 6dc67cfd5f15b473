package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, c *Catalog) {
	r.Get("/catalog/search", searchHandler(c))
}

// searchHandler godoc
// @Summary Buscar en el catálogo de referencia
// @Description Filtra las fichas embebidas por substring en nombre o
// marca. Sin query devuelve el catálogo completo. No requiere auth:
// es información pública de referencia, no datos del usuario.
// @Tags catalog
// @Produce json
// @Param q query string false "Texto a buscar"
// @Success 200 {array} Entry
// @Router /catalog/search [get]
func searchHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results := c.Search(r.URL.Query().Get("q"))
		writeJSON(w, http.StatusOK, results)
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
