package main

import (
	"io"
	"net/http"
	"os"

	"github.com/otakuhub/backend/pkg/crypto"
	"github.com/otakuhub/backend/pkg/errorx"
)

// Raw handlers bypass the router middleware chain, so the admin secret is
// checked here again.
func (s *srv) checkAdminSecret(w http.ResponseWriter, r *http.Request) bool {
	secret := r.Header.Get("X-Admin-Secret")
	if secret == "" || !crypto.ConstantTimeEqual(secret, s.configs.Auth.AdminSecret) {
		writeError(w, errorx.New(errorx.PermissionDenied, "Permission denied"), http.StatusForbidden)
		return false
	}

	return true
}

func (s *srv) handleDownloadDB(w http.ResponseWriter, r *http.Request) {
	if !s.checkAdminSecret(w, r) {
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="otakuhub.db"`)
	http.ServeFile(w, r, s.configs.Database.Path)
}

// handleUploadDB stores the replacement database next to the live file. The
// operator swaps it in with a restart; overwriting an open sqlite file would
// corrupt it.
func (s *srv) handleUploadDB(w http.ResponseWriter, r *http.Request) {
	if !s.checkAdminSecret(w, r) {
		return
	}

	target := s.configs.Database.Path + ".upload"
	f, err := os.Create(target)
	if err != nil {
		s.logger.Errorf("Cannot create the upload file: %v", err)
		writeError(w, errorx.Unknown, http.StatusInternalServerError)
		return
	}
	defer f.Close()

	if _, err := io.Copy(f, r.Body); err != nil {
		s.logger.Errorf("Cannot write the upload file: %v", err)
		writeError(w, errorx.Unknown, http.StatusInternalServerError)
		return
	}

	s.logger.Infof("Database uploaded to %s, restart with it to take effect", target)
	writeData(w, map[string]string{"path": target}, http.StatusOK)
}
