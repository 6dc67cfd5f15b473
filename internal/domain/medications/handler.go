package medications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"medtrack/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// ReminderScheduler es lo que el módulo necesita del scheduler de reminders;
// la implementación vive en domain/reminders (evitamos el import circular).
type ReminderScheduler interface {
	Arm(m Medication)
	DisarmAll(medicationID string)
}

func RegisterRoutes(r chi.Router, svc *Service, sched ReminderScheduler) {
	r.Route("/medications", func(mr chi.Router) {
		mr.Post("/", createMedicationHandler(svc, sched))
		mr.Get("/", listMedicationsHandler(svc))

		mr.Get("/{medID}", getMedicationHandler(svc))
		mr.Patch("/{medID}", updateMedicationHandler(svc, sched))
		mr.Delete("/{medID}", deleteMedicationHandler(svc, sched))
	})
}

type createMedicationRequest struct {
	Name         string `json:"name"`
	DosageAmount string `json:"dosage_amount"`
	DosageForm   string `json:"dosage_form" enums:"Tablet,Capsule,Liquid,Injection,Drops,Cream,Gel,Other"`
	Frequency    string `json:"frequency" enums:"Daily,Every 4 hours,Every 8 hours,Every 12 hours,Twice Daily,Every second day,Weekly,As Needed"`
	Instructions string `json:"instructions"`

	DailyReminder bool   `json:"daily_reminder"`
	ReminderTime  string `json:"reminder_time"` // HH:MM, requerido si daily_reminder

	RefillReminder bool   `json:"refill_reminder"`
	RefillDate     string `json:"refill_date"` // YYYY-MM-DD, requerido si refill_reminder
}

type medicationResponse struct {
	ID           string `json:"id"`
	OwnerUserID  string `json:"owner_user_id"`
	Name         string `json:"name"`
	DosageAmount string `json:"dosage_amount"`
	DosageForm   string `json:"dosage_form"`
	Frequency    string `json:"frequency"`
	Instructions string `json:"instructions"`

	DailyReminder bool   `json:"daily_reminder"`
	ReminderTime  string `json:"reminder_time,omitempty"` // HH:MM

	RefillReminder bool   `json:"refill_reminder"`
	RefillDate     string `json:"refill_date,omitempty"` // YYYY-MM-DD

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type updateMedicationRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name         *string `json:"name"`
	DosageAmount *string `json:"dosage_amount"`
	DosageForm   *string `json:"dosage_form"`
	Frequency    *string `json:"frequency"`
	Instructions *string `json:"instructions"`

	DailyReminder  *bool `json:"daily_reminder"`
	RefillReminder *bool `json:"refill_reminder"`

	// reminder_time / refill_date se leen aparte (presencia vs null).
}

// createMedicationHandler godoc
// @Summary Registrar medicamento
// @Description Crea un medicamento del usuario autenticado y arma sus reminders.
// @Tags medications
// @Accept json
// @Produce json
// @Param payload body createMedicationRequest true "Datos del medicamento"
// @Success 201 {object} medicationResponse
// @Failure 400 {string} string "invalid json / campos requeridos / invariantes de reminder"
// @Failure 401 {string} string "unauthorized"
// @Router /medications [post]
func createMedicationHandler(svc *Service, sched ReminderScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var rt *TimeOfDay
		if strings.TrimSpace(req.ReminderTime) != "" {
			t, err := ParseTimeOfDay(req.ReminderTime)
			if err != nil {
				http.Error(w, "reminder_time must be HH:MM", http.StatusBadRequest)
				return
			}
			rt = &t
		}

		var rd *time.Time
		if strings.TrimSpace(req.RefillDate) != "" {
			t, err := time.ParseInLocation("2006-01-02", req.RefillDate, time.Local)
			if err != nil {
				http.Error(w, "refill_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			rd = &t
		}

		m, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:           req.Name,
			DosageAmount:   req.DosageAmount,
			DosageForm:     req.DosageForm,
			Frequency:      req.Frequency,
			Instructions:   req.Instructions,
			DailyReminder:  req.DailyReminder,
			ReminderTime:   rt,
			RefillReminder: req.RefillReminder,
			RefillDate:     rd,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if sched != nil {
			sched.Arm(m)
		}

		writeJSON(w, http.StatusCreated, toMedicationResponse(m))
	}
}

// listMedicationsHandler godoc
// @Summary Listar medicamentos
// @Tags medications
// @Produce json
// @Success 200 {array} medicationResponse
// @Failure 401 {string} string "unauthorized"
// @Router /medications [get]
func listMedicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(m))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// getMedicationHandler godoc
// @Summary Obtener medicamento
// @Tags medications
// @Produce json
// @Param medID path string true "ID del medicamento"
// @Success 200 {object} medicationResponse
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medID} [get]
func getMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.GetByID(r.Context(), chi.URLParam(r, "medID"), claims.UserID)
		if err != nil {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

// updateMedicationHandler godoc
// @Summary Editar medicamento (PATCH)
// @Description Actualización parcial con detección de presencia: un campo
// ausente no se toca; un campo enviado vacío/null se limpia. Re-arma los
// reminders según el registro resultante.
// @Tags medications
// @Accept json
// @Produce json
// @Param medID path string true "ID del medicamento"
// @Param payload body updateMedicationRequest true "Campos a modificar"
// @Success 200 {object} medicationResponse
// @Failure 400 {string} string "invalid json / invariantes"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medID} [patch]
func updateMedicationHandler(svc *Service, sched ReminderScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// Para soportar reminder_time / refill_date en null y diferenciarlo
		// de "no enviado", decodificamos a map primero (presencia del campo).
		var raw map[string]json.RawMessage
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var req updateMedicationRequest
		{
			// Re-marshal a JSON y decode al struct para reutilizar tags
			b, _ := json.Marshal(raw)
			if err := json.Unmarshal(b, &req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		in := UpdateInput{
			Name:           req.Name,
			DosageAmount:   req.DosageAmount,
			DosageForm:     req.DosageForm,
			Frequency:      req.Frequency,
			Instructions:   req.Instructions,
			DailyReminder:  req.DailyReminder,
			RefillReminder: req.RefillReminder,
		}

		if v, exists := raw["reminder_time"]; exists {
			in.ReminderTime.Present = true
			if string(v) != "null" {
				var s string
				if err := json.Unmarshal(v, &s); err != nil {
					http.Error(w, "reminder_time must be HH:MM or null", http.StatusBadRequest)
					return
				}
				if strings.TrimSpace(s) != "" {
					t, err := ParseTimeOfDay(s)
					if err != nil {
						http.Error(w, "reminder_time must be HH:MM or null", http.StatusBadRequest)
						return
					}
					in.ReminderTime.Value = &t
				}
			}
		}

		if v, exists := raw["refill_date"]; exists {
			in.RefillDate.Present = true
			if string(v) != "null" {
				var s string
				if err := json.Unmarshal(v, &s); err != nil {
					http.Error(w, "refill_date must be YYYY-MM-DD or null", http.StatusBadRequest)
					return
				}
				if strings.TrimSpace(s) != "" {
					t, err := time.ParseInLocation("2006-01-02", s, time.Local)
					if err != nil {
						http.Error(w, "refill_date must be YYYY-MM-DD or null", http.StatusBadRequest)
						return
					}
					in.RefillDate.Value = &t
				}
			}
		}

		updated, err := svc.Update(r.Context(), chi.URLParam(r, "medID"), claims.UserID, in)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "medication not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		// Re-armar desde el estado nuevo: Arm es idempotente y cancela
		// timers previos del registro; si ambos reminders quedaron
		// apagados solo desarma.
		if sched != nil {
			sched.DisarmAll(updated.ID)
			sched.Arm(updated)
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(updated))
	}
}

// deleteMedicationHandler godoc
// @Summary Eliminar medicamento
// @Tags medications
// @Param medID path string true "ID del medicamento"
// @Success 204 {string} string ""
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medID} [delete]
func deleteMedicationHandler(svc *Service, sched ReminderScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		medID := chi.URLParam(r, "medID")
		if err := svc.Delete(r.Context(), medID, claims.UserID); err != nil {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		if sched != nil {
			sched.DisarmAll(medID)
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toMedicationResponse(m Medication) medicationResponse {
	resp := medicationResponse{
		ID:             m.ID,
		OwnerUserID:    m.OwnerUserID,
		Name:           m.Name,
		DosageAmount:   m.DosageAmount,
		DosageForm:     string(m.DosageForm),
		Frequency:      string(m.Frequency),
		Instructions:   m.Instructions,
		DailyReminder:  m.DailyReminder,
		RefillReminder: m.RefillReminder,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.ReminderTime != nil {
		resp.ReminderTime = m.ReminderTime.String()
	}
	if m.RefillDate != nil {
		resp.RefillDate = m.RefillDate.Format("2006-01-02")
	}
	return resp
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
