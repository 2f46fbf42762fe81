package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ekoseoglu/takip/internal/chat"
	"github.com/ekoseoglu/takip/internal/i18n"
	"github.com/ekoseoglu/takip/internal/score"
)

type scoreRequest struct {
	// Content is a base64-encoded PDF. Text, when set, skips extraction.
	Content string `json:"content"`
	Text    string `json:"text"`
}

func handleScore(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBodySize)
		defer r.Body.Close()

		lang := reqLang(deps, r)

		var req scoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Content == "" && req.Text == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "one of content or text is required")
			return
		}

		text := req.Text
		if text == "" {
			raw, err := base64.StdEncoding.DecodeString(req.Content)
			if err != nil {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid base64 content")
				return
			}
			text, err = score.ExtractText(bytes.NewReader(raw), int64(len(raw)))
			if err != nil {
				if errors.Is(err, score.ErrUnreadable) {
					httpError(w, http.StatusUnprocessableEntity, "invalid_document", "%s", i18n.T(lang, "score.unreadable"))
					return
				}
				httpError(w, http.StatusInternalServerError, "api_error", "failed to read document: %v", err)
				return
			}
		}

		result := score.Score(text, lang)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

type chatRequest struct {
	Messages []chat.Turn `json:"messages"`
}

func handleChat(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		lang := reqLang(deps, r)

		if deps.Chat == nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "chat is not configured; set TAKIP_CHAT_API_KEY")
			return
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if len(req.Messages) == 0 {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "messages is required and must not be empty")
			return
		}

		appCount := len(deps.Store.Applications())
		reply, err := deps.Chat.Send(r.Context(), req.Messages, appCount, lang)
		if err != nil {
			httpError(w, http.StatusBadGateway, "api_error", "%s", i18n.T(lang, "chat.failed"))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"reply": reply})
	}
}
