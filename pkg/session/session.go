package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

// Store wraps a cookie-backed session under a fixed name so callers never
// pass the name around.
type Store struct {
	name  string
	store sessions.Store
}

func New(name, secret string) *Store {
	return &Store{
		name:  name,
		store: sessions.NewCookieStore([]byte(secret)),
	}
}

func (s *Store) Get(r *http.Request) (*sessions.Session, error) {
	return s.store.Get(r, s.name)
}

func (s *Store) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	return s.store.Save(r, w, session)
}
