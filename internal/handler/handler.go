package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"mindlog/internal/middleware"
	"mindlog/internal/models"
	"mindlog/internal/repository"
	"mindlog/internal/service"
)

// maxAudioUpload bounds the accepted size of one audio recording
const maxAudioUpload = 25 << 20 // 25 MB

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type analyzeTextRequest struct {
	Text string `json:"text"`
	Date string `json:"date"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		errorJSON(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	if _, err := h.svc.Register(req.Username, req.Email, req.Password); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User created successfully"})
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}

	token, err := h.svc.Login(req.Username, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// AnalyzeText handles a text journal submission
func (h *Handler) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	var req analyzeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		errorJSON(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := h.svc.AnalyzeText(user, req.Text, req.Date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// AnalyzeAudio handles an audio journal submission (multipart: file + date)
func (h *Handler) AnalyzeAudio(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioUpload))
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "failed to read audio file")
		return
	}

	result, err := h.svc.AnalyzeAudio(r.Context(), user, audio, header.Filename, r.FormValue("date"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// History returns the user's (date, emotion) history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	items, err := h.svc.History(user)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if items == nil {
		items = []models.HistoryItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// ExportHistory returns the user's history as an XML document
func (h *Handler) ExportHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "could not validate credentials")
		return
	}

	out, err := h.svc.ExportHistoryXML(user)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// writeError translates service errors into the caller-facing taxonomy.
// Unexpected errors are logged with full detail but reported generically.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername),
		errors.Is(err, repository.ErrDuplicateEmail):
		errorJSON(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUnknownUser),
		errors.Is(err, service.ErrBadPassword):
		errorJSON(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrEmptyTranscription):
		errorJSON(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Errorf("Request failed: %v", err)
		errorJSON(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
