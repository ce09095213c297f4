package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/pizzeria-storefront/internal/auth"
	"github.com/fairyhunter13/pizzeria-storefront/internal/catalog"
	"github.com/fairyhunter13/pizzeria-storefront/internal/checkout"
	"github.com/fairyhunter13/pizzeria-storefront/internal/config"
	"github.com/fairyhunter13/pizzeria-storefront/internal/contact"
	httpopenapi "github.com/fairyhunter13/pizzeria-storefront/internal/http/openapi"
	"github.com/fairyhunter13/pizzeria-storefront/internal/images"
	"github.com/fairyhunter13/pizzeria-storefront/internal/obs"
	"github.com/fairyhunter13/pizzeria-storefront/internal/queue"
	"github.com/fairyhunter13/pizzeria-storefront/internal/session"
	"github.com/fairyhunter13/pizzeria-storefront/internal/store"
)

// Services are the collaborators the handlers call.
type Services struct {
	Store    store.Store
	Manager  *queue.Manager
	Sessions *session.Manager
	Catalog  *catalog.Service
	Checkout *checkout.Service
	Auth     *auth.Service
	Contact  *contact.Service
	Images   *images.Resolver
	Verifier *images.Verifier
}

type App struct {
	Cfg config.Config
	Services
	closing atomic.Bool
	started time.Time
}

func NewApp(cfg config.Config, s Services) *App {
	return &App{Cfg: cfg, Services: s, started: time.Now()}
}

// StartShutdown stops taking new orders.
func (a *App) StartShutdown() {
	a.closing.Store(true)
	a.Manager.CloseIntake()
}

// currentSession returns the request's session, creating one when the
// request carried none.
func (a *App) currentSession(w http.ResponseWriter, r *http.Request) *session.Session {
	if s, ok := SessionFromContext(r.Context()); ok {
		return s
	}
	s, _ := a.Sessions.GetOrCreate("")
	w.Header().Set(HeaderSessionID, s.ID)
	return s
}

// decodeJSON reads a JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

// writeBackendError maps a collaborator failure to a single message.
func writeBackendError(w http.ResponseWriter, r *http.Request, op string, err error) {
	obs.Logger.Error("backend call failed", "op", op, "error", err, "request_id", RequestIDFromContext(r.Context()))
	WriteJSONError(w, http.StatusBadGateway, "backend_error", err.Error())
}

func (a *App) listMenuHandler(w http.ResponseWriter, r *http.Request) {
	items, err := a.Catalog.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeBackendError(w, r, "list_menu", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) getMenuItemHandler(w http.ResponseWriter, r *http.Request) {
	it, err := a.Catalog.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	if err != nil {
		writeBackendError(w, r, "get_menu_item", err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if a.closing.Load() {
		status = "shutting_down"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (a *App) queueStatsHandler(w http.ResponseWriter, r *http.Request) {
	enq, proc, backlog, depth := a.Manager.QueueMetrics()
	writeJSON(w, http.StatusOK, map[string]any{
		"orders_enqueued":  enq,
		"orders_processed": proc,
		"backlog_size":     backlog,
		"queue_depth":      depth,
		"worker_count":     a.Manager.WorkerCount(),
		"sessions_active":  a.Sessions.Count(),
		"uptime_sec":       time.Since(a.started).Seconds(),
	})
}

func (a *App) metricsHandler() http.Handler { return obs.Metrics.Handler() }

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Pizzeria API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
