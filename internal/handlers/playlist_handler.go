package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"reelbox/internal/logging"
	"reelbox/internal/models"
	"reelbox/internal/service"
)

// PlaylistService is the behaviour the handler needs from the service layer.
type PlaylistService interface {
	List(ctx context.Context) ([]models.PlaylistView, error)
	Get(ctx context.Context, id string) (models.PlaylistView, error)
	Create(ctx context.Context, playlist *models.Playlist) (string, error)
	Update(ctx context.Context, playlist *models.Playlist) error
	Delete(ctx context.Context, id string) error
}

// PlaylistHandler wires HTTP endpoints to the playlist service.
type PlaylistHandler struct {
	svc PlaylistService
}

// New creates a PlaylistHandler.
func New(svc PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{svc: svc}
}

// Register mounts playlist routes on the given router.
func (h *PlaylistHandler) Register(router *mux.Router) {
	router.HandleFunc("/playlist", h.list).Methods(http.MethodGet)
	router.HandleFunc("/playlist", h.create).Methods(http.MethodPost)
	router.HandleFunc("/playlist", h.update).Methods(http.MethodPut)
	router.HandleFunc("/playlist/{id}", h.get).Methods(http.MethodGet)
	router.HandleFunc("/playlist/{id}", h.delete).Methods(http.MethodDelete)
}

type validationResponse struct {
	Errors []service.FieldError `json:"errors"`
}

func (h *PlaylistHandler) list(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.svc.List(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlists)
}

func (h *PlaylistHandler) get(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, service.ErrNotFound.Error())
			return
		}
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

func (h *PlaylistHandler) create(w http.ResponseWriter, r *http.Request) {
	var payload models.Playlist
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if errs := service.ValidatePlaylist(&payload); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, validationResponse{Errors: errs})
		return
	}

	id, err := h.svc.Create(r.Context(), &payload)
	if err != nil {
		internalError(w, r, err)
		return
	}

	payload.ID = id
	w.Header().Set("Location", "/playlist/"+id)
	writeJSON(w, http.StatusCreated, models.ToView(&payload))
}

func (h *PlaylistHandler) update(w http.ResponseWriter, r *http.Request) {
	var payload models.Playlist
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if errs := service.ValidateUpdate(&payload); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, validationResponse{Errors: errs})
		return
	}

	if err := h.svc.Update(r.Context(), &payload); err != nil {
		if errors.Is(err, service.ErrUpdateFailed) {
			writeError(w, http.StatusBadRequest, service.ErrUpdateFailed.Error())
			return
		}
		internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlaylistHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			writeError(w, http.StatusNotFound, service.ErrNotFound.Error())
		case errors.Is(err, service.ErrDeleteFailed):
			writeError(w, http.StatusNotFound, service.ErrDeleteFailed.Error())
		default:
			internalError(w, r, err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("playlist request failed")
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
