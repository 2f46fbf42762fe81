package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ekoseoglu/takip/internal/i18n"
	"github.com/ekoseoglu/takip/internal/identity"
	"github.com/ekoseoglu/takip/internal/storage"
	"github.com/ekoseoglu/takip/internal/store"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Remember bool   `json:"remember"`
}

type sessionResponse struct {
	Authenticated   bool       `json:"isAuthenticated"`
	User            store.User `json:"user"`
	RememberedEmail string     `json:"rememberedEmail,omitempty"`
}

func handleGetSession(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		remembered, err := deps.Settings.GetSetting(storage.SettingRememberedEmail)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to read settings: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sessionResponse{
			Authenticated:   deps.Store.Authenticated(),
			User:            deps.Store.User(),
			RememberedEmail: remembered,
		})
	}
}

func handleLogin(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		lang := reqLang(deps, r)

		if deps.Identity == nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "accounts are not configured; set TAKIP_IDENTITY_API_KEY")
			return
		}

		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Email == "" || req.Password == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "email and password are required")
			return
		}

		handle, err := deps.Identity.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			var pe *identity.ProviderError
			if errors.As(err, &pe) {
				httpError(w, http.StatusUnauthorized, "authentication_error", "%s", pe.Message(lang))
				return
			}
			httpError(w, http.StatusBadGateway, "api_error", "%s", i18n.T(lang, "auth.generic"))
			return
		}

		if err := finishLogin(deps, handle, req.Remember); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save session: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sessionResponse{
			Authenticated: true,
			User:          deps.Store.User(),
		})
	}
}

func handleRegister(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		lang := reqLang(deps, r)

		if deps.Identity == nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "accounts are not configured; set TAKIP_IDENTITY_API_KEY")
			return
		}

		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Email == "" || req.Password == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "email and password are required")
			return
		}

		handle, err := deps.Identity.SignUp(r.Context(), req.Email, req.Password, req.Name)
		if err != nil {
			var pe *identity.ProviderError
			if errors.As(err, &pe) {
				httpError(w, http.StatusUnprocessableEntity, "authentication_error", "%s", pe.Message(lang))
				return
			}
			httpError(w, http.StatusBadGateway, "api_error", "%s", i18n.T(lang, "auth.generic"))
			return
		}

		if err := finishLogin(deps, handle, req.Remember); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save session: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(sessionResponse{
			Authenticated: true,
			User:          deps.Store.User(),
		})
	}
}

// finishLogin records the session locally and updates the remembered email.
func finishLogin(deps Deps, handle identity.Handle, remember bool) error {
	if err := deps.Store.Login(handle.Email, handle.DisplayName); err != nil {
		return err
	}
	remembered := ""
	if remember {
		remembered = handle.Email
	}
	return deps.Settings.SetSetting(storage.SettingRememberedEmail, remembered)
}

func handleLogout(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Store.Logout(); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to clear session: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "logged_out"})
	}
}

func handlePasswordReset(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		lang := reqLang(deps, r)

		if deps.Identity == nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "accounts are not configured; set TAKIP_IDENTITY_API_KEY")
			return
		}

		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Email == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "email is required")
			return
		}

		if err := deps.Identity.SendPasswordReset(r.Context(), req.Email); err != nil {
			var pe *identity.ProviderError
			if errors.As(err, &pe) {
				httpError(w, http.StatusUnprocessableEntity, "authentication_error", "%s", pe.Message(lang))
				return
			}
			httpError(w, http.StatusBadGateway, "api_error", "%s", i18n.T(lang, "auth.generic"))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "sent"})
	}
}

func handleGetLanguage(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := deps.Settings.GetSetting(storage.SettingLanguage)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to read settings: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"language": string(i18n.Parse(code))})
	}
}

func handleSetLanguage(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req struct {
			Language string `json:"language"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		lang := i18n.Parse(req.Language)
		if err := deps.Settings.SetSetting(storage.SettingLanguage, string(lang)); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save setting: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"language": string(lang)})
	}
}
