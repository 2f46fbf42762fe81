package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ekoseoglu/takip/internal/i18n"
)

func TestSend_PrependsContextTurn(t *testing.T) {
	var got genRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Merhaba!"}]}}]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("key", srv.URL)
	reply, err := c.Send(context.Background(), []Turn{{Role: "user", Text: "Selam"}}, 7, i18n.TR)
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if reply != "Merhaba!" {
		t.Errorf("reply = %q, want Merhaba!", reply)
	}

	if len(got.Contents) != 2 {
		t.Fatalf("len(contents) = %d, want 2 (context + user)", len(got.Contents))
	}
	ctxText := got.Contents[0].Parts[0].Text
	if !strings.Contains(ctxText, "7 applications") || !strings.Contains(ctxText, "Turkish") {
		t.Errorf("context turn = %q", ctxText)
	}
	if got.Contents[1].Parts[0].Text != "Selam" {
		t.Errorf("user turn = %q", got.Contents[1].Parts[0].Text)
	}
}

func TestSend_NormalizesUnknownRoles(t *testing.T) {
	var got genRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("key", srv.URL)
	turns := []Turn{
		{Role: "assistant", Text: "hi"},
		{Role: "model", Text: "hello"},
	}
	if _, err := c.Send(context.Background(), turns, 0, i18n.EN); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got.Contents[1].Role != "user" {
		t.Errorf("unknown role mapped to %q, want user", got.Contents[1].Role)
	}
	if got.Contents[2].Role != "model" {
		t.Errorf("model role = %q, want model", got.Contents[2].Role)
	}
}

func TestSend_Non2xxIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("key", srv.URL)
	_, err := c.Send(context.Background(), []Turn{{Role: "user", Text: "hi"}}, 0, i18n.EN)
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("error = %v, want ErrUpstream", err)
	}
}

func TestSend_EmptyCandidatesIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("key", srv.URL)
	_, err := c.Send(context.Background(), []Turn{{Role: "user", Text: "hi"}}, 0, i18n.EN)
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("error = %v, want ErrUpstream", err)
	}
}
