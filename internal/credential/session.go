package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// sessionKey is the keyring key holding the backend session cookies.
const sessionKey = "session"

// savedCookie is the persisted form of a session cookie.
type savedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path,omitempty"`
	Expires time.Time `json:"expires,omitempty"`
}

// SaveSession persists the backend session cookies for baseURL.
func (s *Store) SaveSession(baseURL string, cookies []*http.Cookie) error {
	saved := make([]savedCookie, 0, len(cookies))
	for _, c := range cookies {
		saved = append(saved, savedCookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Expires: c.Expires,
		})
	}

	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	return s.Set(sessionKey+":"+baseURL, string(data))
}

// LoadSession returns the saved session cookies for baseURL, dropping
// expired ones. A missing session yields no cookies and no error.
func (s *Store) LoadSession(baseURL string, now time.Time) ([]*http.Cookie, error) {
	raw, err := s.Get(sessionKey + ":" + baseURL)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var saved []savedCookie
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		return nil, fmt.Errorf("parsing saved session: %w", err)
	}

	cookies := make([]*http.Cookie, 0, len(saved))
	for _, c := range saved {
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		path := c.Path
		if path == "" {
			path = "/"
		}
		cookies = append(cookies, &http.Cookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    path,
			Expires: c.Expires,
		})
	}
	return cookies, nil
}

// ClearSession forgets the session for baseURL.
func (s *Store) ClearSession(baseURL string) error {
	return s.Delete(sessionKey + ":" + baseURL)
}
