package httpapi

import (
	"expvar"
	"net/http"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /menu", app.listMenuHandler)
	mux.HandleFunc("GET /menu/{id}", app.getMenuItemHandler)

	mux.HandleFunc("GET /cart", app.getCartHandler)
	mux.HandleFunc("POST /cart/items", app.addCartItemHandler)
	mux.HandleFunc("PUT /cart/items/{id}", app.updateCartItemHandler)
	mux.HandleFunc("DELETE /cart/items/{id}", app.removeCartItemHandler)
	mux.HandleFunc("DELETE /cart", app.clearCartHandler)

	mux.HandleFunc("POST /checkout", app.checkoutHandler)
	mux.HandleFunc("GET /orders/{id}", app.getOrderHandler)

	mux.HandleFunc("POST /auth/signin", app.signInHandler)
	mux.HandleFunc("POST /auth/signup", app.signUpHandler)
	mux.HandleFunc("POST /auth/signout", app.signOutHandler)
	mux.HandleFunc("GET /auth/session", app.authSessionHandler)
	mux.HandleFunc("PATCH /auth/profile", app.updateProfileHandler)

	mux.HandleFunc("POST /contact", app.contactHandler)
	mux.HandleFunc("GET /debug/contact/messages", app.listContactHandler)

	mux.HandleFunc("GET /images/resolve", app.resolveImageHandler)
	mux.HandleFunc("GET /debug/images/report", app.imageReportHandler)
	mux.HandleFunc("GET /debug/images/verify", app.imageVerifyHandler)

	mux.HandleFunc("GET /healthz", app.healthHandler)
	mux.HandleFunc("GET /debug/queue", app.queueStatsHandler)
	mux.Handle("GET /metrics", app.metricsHandler())
	mux.Handle("GET /debug/vars", expvar.Handler())
	mux.HandleFunc("GET /openapi.yaml", app.openapiHandler)
	mux.HandleFunc("GET /docs", app.docsHandler)
	return WithRequestID(WithLogging(WithSession(app.Sessions)(mux)))
}
