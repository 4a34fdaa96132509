// ABOUTME: Tests for file upload and download handlers
// ABOUTME: Covers admin gating, subdirectory routing, and path traversal rejection

package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaede/portfolio-api/internal/auth"
)

func multipartUpload(t *testing.T, kind, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if kind != "" {
		require.NoError(t, mw.WriteField("type", kind))
	}
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (e *testEnv) doUpload(t *testing.T, token, kind, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartUpload(t, kind, filename, content)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestUpload_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	userToken := env.createUser(t, "user", "pw", auth.RoleUser)

	rec := env.doUpload(t, "", "", "a.png", "data")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doUpload(t, userToken, "", "a.png", "data")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpload_StoresUnderKindSubdir(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.createUser(t, "admin", "pw", auth.RoleAdmin)

	rec := env.doUpload(t, adminToken, "cover", "photo.PNG", "fake image bytes")
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeJSON[UploadResponse](t, rec)
	assert.Contains(t, resp.URL, "/uploads/covers/")
	assert.True(t, strings.HasSuffix(resp.Filename, ".png"), "extension should be kept lowercased: %q", resp.Filename)
	assert.NotContains(t, resp.Filename, "photo", "client filename must not be reused")

	stored := filepath.Join(env.server.config.Uploads.Path, "covers", resp.Filename)
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))
}

func TestUpload_DefaultsToFilesSubdir(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.createUser(t, "admin", "pw", auth.RoleAdmin)

	rec := env.doUpload(t, adminToken, "", "notes.pdf", "pdf bytes")
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeJSON[UploadResponse](t, rec)
	assert.Contains(t, resp.URL, "/uploads/files/")
}

func TestDownload(t *testing.T) {
	env := newTestEnv(t)

	dir := filepath.Join(env.server.config.Uploads.Path, "files")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.txt"), []byte("hello"), 0644))

	rec := env.do(t, http.MethodGet, "/api/download?file=files/doc.txt", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
}

func TestDownload_Missing(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/download?file=files/nope.txt", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/download", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownload_RejectsTraversal(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/download?file=..%2F..%2Fetc%2Fpasswd", "", nil)
	assert.NotEqual(t, http.StatusOK, rec.Code)
}
