package router

import (
	"context"
	"database/sql"
	_ "embed"
	"net/http"
	"strings"

	lognotifyadapter "medtrack/internal/adapters/notify/lognotify"
	"medtrack/internal/adapters/notify/pushover"
	"medtrack/internal/adapters/ocr/ocrspace"
	mem "medtrack/internal/adapters/storage/memory"
	pg "medtrack/internal/adapters/storage/postgres"
	"medtrack/internal/config"
	"medtrack/internal/domain/catalog"
	"medtrack/internal/domain/extraction"
	"medtrack/internal/domain/medications"
	"medtrack/internal/domain/reminders"
	"medtrack/internal/domain/users"
	"medtrack/internal/middleware"
	"medtrack/internal/ports/auth"
	"medtrack/internal/ports/notify"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed openapi.json
var openapiJSON []byte

type Options struct {
	Cfg config.Config
	Log zerolog.Logger

	// Opcional: si viene, usa Postgres. Si no, cae al DSN de config y
	// por último a in-memory.
	DB *sql.DB

	// Auth propia: ambos pueden ser nil (modo dev, X-Debug-User-ID).
	Verifier auth.AuthVerifier
	Issuer   auth.TokenIssuer

	// Overrides para tests; si vienen nil se construyen desde config.
	Notifier      notify.Notifier
	OCR           extraction.OCRClient
	PrimaryModel  extraction.ModelClient
	FallbackModel extraction.ModelClient
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.Verifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/doc.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(openapiJSON)
	})
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	var (
		usersRepo users.Repository
		medsRepo  medications.Repository
	)

	// Si no te pasan DB explícita, intenta por config (para dev/handoff)
	db := opts.DB
	if db == nil && strings.TrimSpace(opts.Cfg.DBDSN) != "" {
		opened, err := pg.Open(opts.Cfg.DBDSN)
		if err == nil {
			db = opened
		} else {
			opts.Log.Warn().Err(err).Msg("no se pudo abrir postgres, cayendo a in-memory")
		}
	}

	if db != nil {
		usersRepo = pg.NewUsersRepo(db)
		medsRepo = pg.NewMedicationsRepo(db)
	} else {
		usersRepo = mem.NewUsersRepo()
		medsRepo = mem.NewMedicationsRepo()
	}

	// Services por módulo
	usersSvc := users.NewService(usersRepo)
	medsSvc := medications.NewService(medsRepo)

	// Notificaciones: Pushover si hay token, log en dev.
	notifier := opts.Notifier
	if notifier == nil {
		if strings.TrimSpace(opts.Cfg.PushoverToken) != "" {
			if po, err := pushover.NewClient(pushover.Config{
				BaseURL: opts.Cfg.PushoverBaseURL,
				Token:   opts.Cfg.PushoverToken,
				Timeout: opts.Cfg.UpstreamTimeout,
			}); err == nil {
				notifier = po
			} else {
				opts.Log.Warn().Err(err).Msg("pushover mal configurado, usando notifier de log")
			}
		}
		if notifier == nil {
			notifier = lognotifyadapter.New(opts.Log)
		}
	}

	sched := reminders.NewScheduler(notifier, opts.Log)

	// Los timers viven en memoria: al arrancar se reconstruyen desde lo
	// persistido.
	if items, err := medsRepo.ListReminderEnabled(context.Background()); err == nil {
		sched.Rearm(items)
	} else {
		opts.Log.Warn().Err(err).Msg("no se pudieron re-armar los reminders")
	}

	// Pipeline de extracción: solo si los proveedores están configurados
	// (o inyectados por tests). Sin pipeline la ruta devuelve 503.
	pipeline := buildPipeline(opts)

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc, opts.Issuer)
	medications.RegisterRoutes(r, medsSvc, sched)
	extraction.RegisterRoutes(r, pipeline)

	if cat, err := catalog.Load(); err == nil {
		catalog.RegisterRoutes(r, cat)
	} else {
		opts.Log.Error().Err(err).Msg("no se pudo cargar el catálogo embebido")
	}

	return r
}

func buildPipeline(opts Options) *extraction.Pipeline {
	ocr := opts.OCR
	primary := opts.PrimaryModel
	fallback := opts.FallbackModel

	if ocr == nil && strings.TrimSpace(opts.Cfg.OCRAPIKey) != "" {
		client, err := ocrspace.NewClient(ocrspace.Config{
			BaseURL: opts.Cfg.OCRBaseURL,
			APIKey:  opts.Cfg.OCRAPIKey,
			Timeout: opts.Cfg.UpstreamTimeout,
		})
		if err != nil {
			opts.Log.Warn().Err(err).Msg("ocr mal configurado")
		} else {
			ocr = client
		}
	}
	if primary == nil && strings.TrimSpace(opts.Cfg.GroqAPIKey) != "" {
		primary = newGroqClient(opts.Cfg)
	}
	if fallback == nil && strings.TrimSpace(opts.Cfg.CohereAPIKey) != "" {
		fallback = newCohereClient(opts.Cfg)
	}

	if ocr == nil || primary == nil || fallback == nil {
		opts.Log.Info().Msg("extracción deshabilitada: faltan credenciales de proveedores")
		return nil
	}

	return extraction.NewPipeline(
		ocr, primary, fallback,
		medications.AllowedDosageForms(),
		medications.AllowedFrequencies(),
		opts.Log,
	)
}
