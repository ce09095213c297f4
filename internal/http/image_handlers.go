package httpapi

import (
	"net/http"

	"github.com/fairyhunter13/pizzeria-storefront/internal/obs"
)

type resolveResponse struct {
	Name string `json:"name"`
	Key  string `json:"key"`
	File string `json:"file"`
	URL  string `json:"url,omitempty"`
	Step string `json:"step"`
}

func (a *App) resolveImageHandler(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	asset, step := a.Images.ResolveStep(name)
	obs.Metrics.ImageResolutions.WithLabelValues(string(step)).Inc()
	resp := resolveResponse{Name: name, Key: asset.Key, File: asset.File, Step: string(step)}
	if a.Verifier != nil {
		resp.URL = a.Verifier.URL(asset)
	}
	writeJSON(w, http.StatusOK, resp)
}

// debugOnly answers 404 outside the local environment.
func (a *App) debugOnly(w http.ResponseWriter) bool {
	if !a.Cfg.Debug.ImageReport {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return false
	}
	return true
}

func (a *App) imageReportHandler(w http.ResponseWriter, r *http.Request) {
	if !a.debugOnly(w) {
		return
	}
	names, err := a.Catalog.Names(r.Context())
	if err != nil {
		writeBackendError(w, r, "list_menu", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"report":         a.Images.Report(names),
		"available_keys": a.Images.AvailableKeys(),
	})
}

func (a *App) imageVerifyHandler(w http.ResponseWriter, r *http.Request) {
	if !a.debugOnly(w) {
		return
	}
	if a.Verifier == nil {
		WriteJSONError(w, http.StatusServiceUnavailable, "verifier_unavailable", "")
		return
	}
	writeJSON(w, http.StatusOK, a.Verifier.VerifyAll(r.Context(), a.Images.Table().Assets()))
}
