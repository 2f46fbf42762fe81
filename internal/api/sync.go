package api

import (
	"encoding/json"
	"net/http"
)

func handleSyncPush(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Remote == nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "sync is not configured; set remote.base_url")
			return
		}
		if !deps.Store.Authenticated() {
			httpError(w, http.StatusUnauthorized, "authentication_error", "sign in before syncing")
			return
		}

		apps := deps.Store.Applications()
		if err := deps.Remote.Push(r.Context(), deps.Store.User().Email, apps); err != nil {
			httpError(w, http.StatusBadGateway, "api_error", "push failed: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": "pushed",
			"count":  len(apps),
		})
	}
}

func handleSyncPull(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Remote == nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "sync is not configured; set remote.base_url")
			return
		}
		if !deps.Store.Authenticated() {
			httpError(w, http.StatusUnauthorized, "authentication_error", "sign in before syncing")
			return
		}

		apps, err := deps.Remote.List(r.Context(), deps.Store.User().Email)
		if err != nil {
			httpError(w, http.StatusBadGateway, "api_error", "pull failed: %v", err)
			return
		}

		// The remote copy wins wholesale; no merge.
		if err := deps.Store.Replace(apps); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save pulled records: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": "pulled",
			"count":  len(apps),
		})
	}
}
