package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"raw-loader/internal/logging"
	"raw-loader/internal/rawerr"

	"github.com/gorilla/mux"
)

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, kind rawerr.Kind, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	body := map[string]string{"error": message}
	if kind != "" {
		body["kind"] = string(kind)
	}
	writeJSON(w, body)
}

// statusForKind maps an error kind to an HTTP status code.
func statusForKind(kind rawerr.Kind) int {
	switch kind {
	case rawerr.FileUnreadable:
		return http.StatusNotFound
	case rawerr.UnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case rawerr.DecodeFailure:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeLoadError reports a failed development.
func writeLoadError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(r.Context().Err(), context.Canceled) {
		// Client went away; nobody is reading the response.
		logging.Debug("Request for %s cancelled by client", r.URL.Path)
		return
	}
	kind := rawerr.KindOf(err)
	if !rawerr.IsPrimaryFailure(err) {
		logging.Error("Development failed for %s: %v", r.URL.Path, err)
	}
	writeJSONError(w, err.Error(), kind, statusForKind(kind))
}

// resolvePath maps the {path} route variable to a regular file under the
// media directory. Symlinks are resolved before the containment check.
func (h *Handlers) resolvePath(w http.ResponseWriter, r *http.Request) (string, bool) {
	rel := mux.Vars(r)["path"]
	if rel == "" {
		writeJSONError(w, "path is required", "", http.StatusBadRequest)
		return "", false
	}

	full := filepath.Join(h.mediaDir, filepath.FromSlash(rel))
	if !isSubPath(h.mediaDir, full) {
		logging.Warn("Rejected path outside media dir: %q", rel)
		writeJSONError(w, "invalid path", "", http.StatusBadRequest)
		return "", false
	}

	resolved, err := filepath.EvalSymlinks(full)
	if err != nil {
		if os.IsNotExist(err) {
			writeJSONError(w, "file not found", rawerr.FileUnreadable, http.StatusNotFound)
		} else {
			writeJSONError(w, "failed to access file", rawerr.FileUnreadable, http.StatusNotFound)
		}
		return "", false
	}

	root, err := filepath.EvalSymlinks(h.mediaDir)
	if err != nil || !isSubPath(root, resolved) {
		logging.Warn("Rejected symlink outside media dir: %q", rel)
		writeJSONError(w, "invalid path", "", http.StatusBadRequest)
		return "", false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		writeJSONError(w, "failed to access file", rawerr.FileUnreadable, http.StatusNotFound)
		return "", false
	}
	if info.IsDir() {
		writeJSONError(w, "path is a directory", "", http.StatusBadRequest)
		return "", false
	}
	return resolved, true
}

func isSubPath(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
