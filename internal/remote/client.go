// Package remote syncs the local record list with a hosted document store.
// The remote copy is authoritative for multi-device durability; there is
// no conflict resolution. Push mirrors the local list onto the remote
// store, pull wholesale-replaces the local list.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ekoseoglu/takip/internal/store"
)

const (
	collection      = "applications"
	defaultTimeout  = 30 * time.Second
	pushConcurrency = 4
)

// Document is one remotely stored application, tagged with its owner at
// sync time. CreatedAt is the server-assigned creation time translated to
// milliseconds since epoch on read.
type Document struct {
	ID        string            `json:"id,omitempty"`
	OwnerID   string            `json:"ownerId"`
	Fields    store.Application `json:"fields"`
	CreatedAt int64             `json:"createdAt,omitempty"`
}

// Client calls the hosted document store's REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a document-store client. token authenticates the
// current user against the remote store.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Create stores one application document and returns the new document id.
func (c *Client) Create(ctx context.Context, ownerID string, app store.Application) (string, error) {
	doc := Document{OwnerID: ownerID, Fields: app}
	var created Document
	if err := c.do(ctx, http.MethodPost, "/"+collection, doc, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// List fetches the owner's documents ordered by creation time descending.
func (c *Client) List(ctx context.Context, ownerID string) ([]store.Application, error) {
	path := fmt.Sprintf("/%s?owner=%s&orderBy=createdAt&dir=desc", collection, url.QueryEscape(ownerID))
	var docs []Document
	if err := c.do(ctx, http.MethodGet, path, nil, &docs); err != nil {
		return nil, err
	}

	apps := make([]store.Application, 0, len(docs))
	for _, d := range docs {
		app := d.Fields
		if app.CreatedAt == 0 {
			app.CreatedAt = d.CreatedAt
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// Update rewrites one document's fields in place.
func (c *Client) Update(ctx context.Context, id string, app store.Application) error {
	return c.do(ctx, http.MethodPatch, "/"+collection+"/"+url.PathEscape(id), Document{Fields: app}, nil)
}

// Delete removes one document.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/"+collection+"/"+url.PathEscape(id), nil, nil)
}

// Push mirrors the local record list to the remote store, a few requests
// at a time: documents that exist remotely are rewritten, new records are
// created, and remote documents with no local counterpart are removed.
// Last write wins remotely; nothing is merged.
func (c *Client) Push(ctx context.Context, ownerID string, apps []store.Application) error {
	path := fmt.Sprintf("/%s?owner=%s", collection, url.QueryEscape(ownerID))
	var docs []Document
	if err := c.do(ctx, http.MethodGet, path, nil, &docs); err != nil {
		return fmt.Errorf("listing remote documents: %w", err)
	}

	remote := make(map[string]string, len(docs)) // record id -> document id
	for _, d := range docs {
		remote[d.Fields.ID] = d.ID
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(pushConcurrency)

	local := make(map[string]bool, len(apps))
	for _, app := range apps {
		local[app.ID] = true
		g.Go(func() error {
			if docID, ok := remote[app.ID]; ok {
				if err := c.Update(gCtx, docID, app); err != nil {
					return fmt.Errorf("pushing record %s: %w", app.ID, err)
				}
				return nil
			}
			if _, err := c.Create(gCtx, ownerID, app); err != nil {
				return fmt.Errorf("pushing record %s: %w", app.ID, err)
			}
			return nil
		})
	}

	for _, d := range docs {
		if local[d.Fields.ID] {
			continue
		}
		g.Go(func() error {
			if err := c.Delete(gCtx, d.ID); err != nil {
				return fmt.Errorf("removing stale document %s: %w", d.ID, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling document store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("document store returned %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
