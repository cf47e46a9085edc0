package chi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// handleUploadBlob handles POST /api/v1/blobs. The request body is the raw
// file content; the name comes from the "name" query parameter and the
// content type from the Content-Type header.
func (s *Server) handleUploadBlob(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "read request body: "+err.Error())
		return
	}

	meta, err := s.blobs.Upload(
		r.Context(),
		r.URL.Query().Get("name"),
		r.Header.Get("Content-Type"),
		data,
		CallerPrincipal(r.Context()),
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, blobMetaToResponse(meta))
}

// handleDownloadBlob handles GET /api/v1/blobs/{blobKey}.
func (s *Server) handleDownloadBlob(w http.ResponseWriter, r *http.Request) {
	meta, data, err := s.blobs.Get(r.Context(), chi.URLParam(r, "blobKey"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	contentType := meta.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if meta.Name != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", meta.Name))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleStatBlob handles GET /api/v1/blobs/{blobKey}/meta.
func (s *Server) handleStatBlob(w http.ResponseWriter, r *http.Request) {
	meta, err := s.blobs.Stat(r.Context(), chi.URLParam(r, "blobKey"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, blobMetaToResponse(meta))
}

// handleDeleteBlob handles DELETE /api/v1/blobs/{blobKey}. Admin only.
func (s *Server) handleDeleteBlob(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if err := s.blobs.Delete(r.Context(), chi.URLParam(r, "blobKey")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
