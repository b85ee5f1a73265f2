// Package github proxies the configured GitHub API endpoints for the
// public portfolio pages.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const requestTimeout = 10 * time.Second

// StatusError сообщает не-2xx ответ GitHub вместе с кодом.
// Обработчик GitHub-прокси — единственное место, где входящий 4xx
// транслируется в 4xx нашего ответа.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("github responded with status %d", e.Code)
}

// Client — тонкий HTTP-клиент к GitHub API
type Client struct {
	http       *http.Client
	token      string
	userAgent  string
	profileURL string
	reposURL   string
}

// New создает клиент с таймаутом на запрос
func New(profileURL, reposURL, token, userAgent string) *Client {
	return &Client{
		http:       &http.Client{Timeout: requestTimeout},
		token:      token,
		userAgent:  userAgent,
		profileURL: profileURL,
		reposURL:   reposURL,
	}
}

// Profile возвращает сырой JSON профиля владельца
func (c *Client) Profile(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, c.profileURL)
}

// Repos возвращает сырой JSON списка репозиториев
func (c *Client) Repos(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, c.reposURL)
}

func (c *Client) get(ctx context.Context, url string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build github request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read github response: %w", err)
	}

	return json.RawMessage(body), nil
}
