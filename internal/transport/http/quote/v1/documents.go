package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/you-humble/btp-quote/internal/model"
)

const (
	maxDocumentBytes = 32 << 20
	maxMemoryBytes   = 8 << 20
)

// AttachDocument takes a multipart form with a "file" part and an optional
// "uploaded_by" field.
func (h *handler) AttachDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBytes)
	if err := r.ParseMultipartForm(maxMemoryBytes); err != nil {
		writeError(w, r, model.NewValidationError("invalid multipart form: "+err.Error()))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, model.NewValidationError("missing file part"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	doc, err := h.svc.AttachStudyDocument(r.Context(), chi.URLParam(r, "id"), model.UploadParams{
		Name:        header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
		UploadedBy:  r.FormValue("uploaded_by"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, documentToDTO(doc))
}

func (h *handler) RemoveDocument(w http.ResponseWriter, r *http.Request) {
	err := h.svc.RemoveStudyDocument(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "docID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
