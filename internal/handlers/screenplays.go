package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/njorogek/screenplay-ingest-api/internal/models"
	"github.com/njorogek/screenplay-ingest-api/internal/services"
	"github.com/njorogek/screenplay-ingest-api/internal/utils"
)

type ScreenplayHandler struct {
	service     services.ScreenplayService
	logger      *utils.Logger
	maxFileSize int64
}

func NewScreenplayHandler(service services.ScreenplayService, logger *utils.Logger, maxFileSize int64) *ScreenplayHandler {
	return &ScreenplayHandler{
		service:     service,
		logger:      logger,
		maxFileSize: maxFileSize,
	}
}

func (h *ScreenplayHandler) UploadScreenplay(w http.ResponseWriter, r *http.Request) {
	// Reject oversized requests early from the Content-Length header
	if r.ContentLength > h.maxFileSize {
		h.respondError(w, utils.NewBadRequestError("File exceeds the upload size limit"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			h.respondError(w, utils.NewBadRequestError("File exceeds the upload size limit"))
			return
		}
		h.respondError(w, utils.NewBadRequestError("Invalid form data"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, utils.NewBadRequestError("No file provided"))
		return
	}
	defer file.Close()

	contentType := determineContentType(header.Filename, header.Header.Get("Content-Type"))

	h.logger.Info("File upload attempt",
		"filename", header.Filename,
		"reported_content_type", header.Header.Get("Content-Type"),
		"determined_content_type", contentType)

	if !isValidContentType(contentType) {
		h.respondError(w, utils.NewBadRequestError("Only PDF, DOCX and TXT files are allowed"))
		return
	}
	contentType = normalizeContentType(contentType)

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		h.respondError(w, utils.NewInternalError("Failed to read file"))
		return
	}

	if int64(len(data)) > h.maxFileSize {
		h.respondError(w, utils.NewBadRequestError("File exceeds the upload size limit"))
		return
	}

	if len(data) == 0 {
		h.respondError(w, utils.NewBadRequestError("Uploaded file is empty"))
		return
	}

	req := &models.UploadRequest{
		File:        data,
		Filename:    header.Filename,
		ContentType: contentType,
	}

	resp, err := h.service.UploadScreenplay(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, resp)
}

func (h *ScreenplayHandler) ProcessScreenplay(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	if id == "" {
		h.respondError(w, utils.NewBadRequestError("Screenplay ID is required"))
		return
	}

	resp, err := h.service.ProcessScreenplay(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, resp)
}

func (h *ScreenplayHandler) GetScreenplay(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	if id == "" {
		h.respondError(w, utils.NewBadRequestError("Screenplay ID is required"))
		return
	}

	sp, err := h.service.GetScreenplay(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, sp)
}

func (h *ScreenplayHandler) ListScenes(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	if id == "" {
		h.respondError(w, utils.NewBadRequestError("Screenplay ID is required"))
		return
	}

	scenes, err := h.service.ListScenes(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, scenes)
}

// determineContentType resolves the content type from the filename extension,
// falling back to the multipart header when the extension is unknown.
func determineContentType(filename, headerContentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	case ".doc":
		// Not supported, but mapping it yields a clearer error downstream
		return "application/msword"
	}

	return headerContentType
}

func isValidContentType(contentType string) bool {
	validTypes := map[string]bool{
		"application/pdf": true,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
		// Some browsers send this truncated variant for DOCX
		"application/vnd.openxmlformats-officedocument.wordprocessingml": true,
		"text/plain":        true,
		"text/txt":          true,
		"application/txt":   true,
		"application/x-txt": true,
	}

	return validTypes[contentType]
}

// normalizeContentType collapses browser MIME variants onto the canonical
// types the extractor dispatches on.
func normalizeContentType(contentType string) string {
	switch contentType {
	case "application/vnd.openxmlformats-officedocument.wordprocessingml":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case "text/txt", "application/txt", "application/x-txt":
		return "text/plain"
	}
	return contentType
}

func (h *ScreenplayHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *ScreenplayHandler) respondError(w http.ResponseWriter, err error) {
	var status int
	var message string

	switch e := err.(type) {
	case *utils.AppError:
		status = e.StatusCode
		message = e.Message
	default:
		status = http.StatusInternalServerError
		message = "Internal server error"
	}

	h.logger.Error("Request error", "status", status, "error", message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
