package main

import (
	"encoding/json"
	"net/http"

	"github.com/otakuhub/backend/pkg/crypto"
	"github.com/otakuhub/backend/pkg/errorx"
	"github.com/otakuhub/backend/pkg/session"
)

const sessionStateKey = "oauth2_state"

func (s *srv) sessionStore() *session.Store {
	return session.New(s.configs.Session.Name, s.configs.Session.Secret)
}

// handleGoogleRedirect starts the server-side code flow. The state nonce is
// kept in the session cookie and checked on the way back.
func (s *srv) handleGoogleRedirect(w http.ResponseWriter, r *http.Request) {
	if s.oauth2Service == nil {
		writeError(w, errorx.New(errorx.Unavailable, "Google login is not configured"), http.StatusServiceUnavailable)
		return
	}

	state, err := crypto.GenerateRandomString()
	if err != nil {
		s.logger.Errorf("Cannot generate the state: %v", err)
		writeError(w, errorx.Unknown, http.StatusInternalServerError)
		return
	}

	session, _ := s.sessionStore().Get(r)
	session.Values[sessionStateKey] = state
	if err := session.Save(r, w); err != nil {
		s.logger.Errorf("Cannot save the session: %v", err)
		writeError(w, errorx.Unknown, http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, s.oauth2Service.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (s *srv) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.oauth2Service == nil {
		writeError(w, errorx.New(errorx.Unavailable, "Google login is not configured"), http.StatusServiceUnavailable)
		return
	}

	session, _ := s.sessionStore().Get(r)
	wantState, _ := session.Values[sessionStateKey].(string)
	delete(session.Values, sessionStateKey)
	_ = session.Save(r, w)

	if wantState == "" || r.URL.Query().Get("state") != wantState {
		writeError(w, errorx.New(errorx.AuthFailed, "Mismatched oauth2 state"), http.StatusUnauthorized)
		return
	}

	ctx := r.Context()
	token, err := s.oauth2Service.Exchange(ctx, r.URL.Query().Get("code"))
	if err != nil {
		s.logger.Warnf("Cannot exchange the authorization code: %v", err)
		writeError(w, errorx.New(errorx.AuthFailed, "Cannot verify the google account"), http.StatusUnauthorized)
		return
	}

	serviceUser, err := s.oauth2Service.VerifyExchangedToken(ctx, token)
	if err != nil {
		s.logger.Warnf("Cannot verify the exchanged token: %v", err)
		writeError(w, errorx.New(errorx.AuthFailed, "Cannot verify the google account"), http.StatusUnauthorized)
		return
	}

	resp, err := s.authDomain.LoginWithFederatedUser(ctx, serviceUser)
	if err != nil {
		writeError(w, err, http.StatusUnauthorized)
		return
	}

	writeData(w, resp, http.StatusOK)
}

func writeData(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"code": 0, "data": data})
}

func writeError(w http.ResponseWriter, err error, status int) {
	code := errorx.Unknown.Code
	message := errorx.Unknown.Message
	if errx, ok := err.(errorx.Error); ok {
		code = errx.Code
		message = errx.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"code": code, "error": message})
}
