package common

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	// SessionName is the cookie holding the browser session.
	SessionName = "docsite"

	sessionIDKey     = "id"
	bannerDismissKey = "banner_dismissed"
)

// SessionID returns the browser's session id, creating and saving one on
// first use.
func SessionID(store sessions.Store, w http.ResponseWriter, r *http.Request) (string, error) {
	session, err := store.Get(r, SessionName)
	if err != nil && session == nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	if id, ok := session.Values[sessionIDKey].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.NewString()
	session.Values[sessionIDKey] = id
	if err := session.Save(r, w); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return id, nil
}

// ExistingSessionID returns the session id without creating one.
func ExistingSessionID(store sessions.Store, r *http.Request) string {
	session, err := store.Get(r, SessionName)
	if err != nil || session == nil {
		return ""
	}
	id, _ := session.Values[sessionIDKey].(string)
	return id
}

// BannerDismissed reports whether the browser dismissed the banner with key.
func BannerDismissed(store sessions.Store, r *http.Request, key string) bool {
	session, err := store.Get(r, SessionName)
	if err != nil || session == nil {
		return false
	}
	dismissed, _ := session.Values[bannerDismissKey].(string)
	return key != "" && dismissed == key
}

// DismissBanner records the dismissal of the banner with key.
func DismissBanner(store sessions.Store, w http.ResponseWriter, r *http.Request, key string) error {
	session, err := store.Get(r, SessionName)
	if err != nil && session == nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	session.Values[bannerDismissKey] = key
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
