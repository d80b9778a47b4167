package upload

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"imageoptimizer/internal/imageproc"
	"imageoptimizer/internal/imagetype"
)

type Handler struct {
	service        *Service
	maxUploadBytes int64
	defaultQuality int
	logger         zerolog.Logger
}

func NewHandler(service *Service, maxUploadBytes int64, defaultQuality int, logger zerolog.Logger) *Handler {
	return &Handler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		defaultQuality: defaultQuality,
		logger:         logger,
	}
}

// HandleUpload accepts a multipart form with a required "image" file field
// and an optional "quality" field, runs the pipeline and writes the JSON
// result or error payload.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.writeError(w, http.StatusBadRequest, "Could not parse upload form.")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "No image uploaded!")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to read upload body")
		h.writeError(w, http.StatusInternalServerError, "Server error: unable to read uploaded file.")
		return
	}

	result, err := h.service.Process(r.Context(), header.Filename, data, h.quality(r))
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// quality reads the optional form field. Non-numeric values fall back to the
// default; range clamping happens in the transcoder.
func (h *Handler) quality(r *http.Request) int {
	raw := r.FormValue("quality")
	if raw == "" {
		return h.defaultQuality
	}
	q, err := strconv.Atoi(raw)
	if err != nil {
		return h.defaultQuality
	}
	return q
}

// respondError maps pipeline errors onto the response taxonomy: rejections
// the uploader caused get a 4xx with the real reason, everything else gets a
// generic 5xx with the detail kept in the log.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, imagetype.ErrExtensionRejected):
		h.writeError(w, http.StatusBadRequest, "Invalid file extension! Only png, jpg, jpeg and gif files are allowed.")
	case errors.Is(err, imagetype.ErrContentTypeRejected):
		h.writeError(w, http.StatusBadRequest, "File content is not an accepted image type.")
	case errors.Is(err, imageproc.ErrInvalidImage):
		h.writeError(w, http.StatusBadRequest, "Uploaded file is not a valid image!")
	default:
		h.logger.Error().Err(err).Msg("failed to process upload")
		h.writeError(w, http.StatusInternalServerError, "Server error: unable to process image.")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, ErrorResponse{Error: message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}
