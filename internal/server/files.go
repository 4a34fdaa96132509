// ABOUTME: HTTP handlers for file upload and download
// ABOUTME: Uploaded files get UUID names under per-kind subdirectories

package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// maxUploadBytes bounds multipart request bodies.
const maxUploadBytes = 50 << 20 // 50 MiB

// UploadResponse is the JSON response for upload requests.
type UploadResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// uploadSubdir maps an upload kind to its storage subdirectory.
func uploadSubdir(kind string) string {
	switch kind {
	case "cover":
		return "covers"
	case "media":
		return "media"
	default:
		return "files"
	}
}

// handleUpload handles POST /api/upload and POST /api/upload/project requests.
// The multipart field is "file"; an optional "type" field (cover, media, file)
// picks the storage subdirectory. Stored names are UUIDs so uploads can never
// collide or overwrite each other.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	subdir := uploadSubdir(r.FormValue("type"))
	dir := filepath.Join(s.config.Uploads.Path, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		s.logger.Error("failed to create upload directory", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// Only the extension of the client filename is kept.
	ext := strings.ToLower(filepath.Ext(header.Filename))
	name := uuid.New().String() + ext
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		s.logger.Error("failed to create upload file", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dstPath)
		s.logger.Error("failed to write upload", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	url := fmt.Sprintf("%s/uploads/%s/%s", strings.TrimSuffix(s.config.Uploads.BaseURL, "/"), subdir, name)
	s.logger.Info("file uploaded", "subdir", subdir, "name", name, "size", header.Size)
	s.writeJSON(w, http.StatusCreated, UploadResponse{URL: url, Filename: name})
}

// handleDownload handles GET /api/download?file=X requests. It serves the
// named upload as an attachment. The file parameter is the path under the
// uploads directory, e.g. "files/abc.pdf".
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Query().Get("file")
	if name == "" {
		s.sendJSONError(w, http.StatusBadRequest, "file is required")
		return
	}

	// Normalize and refuse anything escaping the uploads root.
	clean := path.Clean("/" + name)
	if strings.Contains(clean, "..") {
		s.sendJSONError(w, http.StatusBadRequest, "invalid file path")
		return
	}
	full := filepath.Join(s.config.Uploads.Path, filepath.FromSlash(clean))

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		s.sendJSONError(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(full)))
	http.ServeFile(w, r, full)
}
