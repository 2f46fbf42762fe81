// Package api exposes the tracker over a localhost REST surface plus an
// MCP server. All state flows through the injected store; handlers stay
// thin and deterministic.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ekoseoglu/takip/internal/analytics"
	"github.com/ekoseoglu/takip/internal/chat"
	"github.com/ekoseoglu/takip/internal/i18n"
	"github.com/ekoseoglu/takip/internal/identity"
	"github.com/ekoseoglu/takip/internal/storage"
	"github.com/ekoseoglu/takip/internal/store"

	"golang.org/x/text/language"
)

const maxRequestBodySize = 1 << 20   // 1MB
const maxDocumentBodySize = 10 << 20 // 10MB, scoring uploads

// ChatSender abstracts the conversational adapter for the API layer.
type ChatSender interface {
	Send(ctx context.Context, turns []chat.Turn, appCount int, lang i18n.Lang) (string, error)
}

// IdentityProvider abstracts the account backend.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (identity.Handle, error)
	SignUp(ctx context.Context, email, password, displayName string) (identity.Handle, error)
	SendPasswordReset(ctx context.Context, email string) error
}

// Syncer abstracts the remote document store.
type Syncer interface {
	Push(ctx context.Context, ownerID string, apps []store.Application) error
	List(ctx context.Context, ownerID string) ([]store.Application, error)
}

type Deps struct {
	Store    *store.Store
	Settings *storage.Store
	Token    string
	Chat     ChatSender       // optional; if nil, /chat reports unavailable
	Identity IdentityProvider // optional; if nil, session endpoints report unavailable
	Remote   Syncer           // optional; if nil, /sync endpoints report unavailable
}

func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))

		r.Get("/applications", handleListApplications(deps))
		r.Post("/applications", handleAddApplication(deps))
		r.Patch("/applications/{id}", handleUpdateApplication(deps))
		r.Delete("/applications/{id}", handleDeleteApplication(deps))

		r.Get("/stats", handleStats(deps))
		r.Get("/export/{format}", handleExport(deps))

		r.Post("/score", handleScore(deps))
		r.Post("/chat", handleChat(deps))

		r.Get("/session", handleGetSession(deps))
		r.Post("/session/login", handleLogin(deps))
		r.Post("/session/register", handleRegister(deps))
		r.Post("/session/logout", handleLogout(deps))
		r.Post("/session/reset", handlePasswordReset(deps))

		r.Get("/settings/language", handleGetLanguage(deps))
		r.Put("/settings/language", handleSetLanguage(deps))

		r.Post("/sync/push", handleSyncPush(deps))
		r.Post("/sync/pull", handleSyncPull(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// reqLang resolves the UI language: an explicit lang query parameter wins,
// otherwise the persisted setting, otherwise English.
func reqLang(deps Deps, r *http.Request) i18n.Lang {
	if code := r.URL.Query().Get("lang"); code != "" {
		return i18n.Parse(code)
	}
	code, err := deps.Settings.GetSetting(storage.SettingLanguage)
	if err != nil {
		return i18n.EN
	}
	return i18n.Parse(code)
}

func collationTag(lang i18n.Lang) language.Tag {
	if lang == i18n.TR {
		return language.Turkish
	}
	return language.English
}

func listQuery(r *http.Request) analytics.ListQuery {
	q := analytics.ListQuery{
		Search: r.URL.Query().Get("q"),
		Status: r.URL.Query().Get("status"),
		Sort:   analytics.SortKey(r.URL.Query().Get("sort")),
		Desc:   r.URL.Query().Get("dir") != "asc",
	}
	if q.Sort == "" {
		q.Sort = analytics.SortByDate
	}
	return q
}

func handleListApplications(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := reqLang(deps, r)
		apps := analytics.View(deps.Store.Applications(), listQuery(r), collationTag(lang))
		if apps == nil {
			apps = []store.Application{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(apps)
	}
}

func handleAddApplication(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var f store.Fields
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if f.Company == "" || f.Position == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "company and position are required")
			return
		}
		if f.Status == "" {
			f.Status = store.StatusInProcess
		}

		app, err := deps.Store.Add(f)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save record: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(app)
	}
}

func handleUpdateApplication(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		id := chi.URLParam(r, "id")

		var p store.Patch
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		found, err := deps.Store.Update(id, p)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to update record: %v", err)
			return
		}
		if !found {
			httpError(w, http.StatusNotFound, "not_found", "application not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "updated"})
	}
}

func handleDeleteApplication(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		found, err := deps.Store.Delete(id)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete record: %v", err)
			return
		}
		if !found {
			httpError(w, http.StatusNotFound, "not_found", "application not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
	}
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
