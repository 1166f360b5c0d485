package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/hope-sync-api/services/hope-sync/internal/repository"
	"github.com/vasapolrittideah/hope-sync-api/services/hope-sync/internal/usecase"
	"github.com/vasapolrittideah/hope-sync-api/shared/utilities"
)

// Resource describes a content collection exposed over HTTP.
type Resource struct {
	Singular string
	Plural   string

	// NotFoundWhenEmpty makes List answer 404 instead of an empty array.
	NotFoundWhenEmpty bool
}

type documentHTTPHandler struct {
	resource  Resource
	documents usecase.DocumentUsecase
	logger    *zerolog.Logger
}

func newDocumentHTTPHandler(resource Resource, documents usecase.DocumentUsecase, logger *zerolog.Logger) *documentHTTPHandler {
	l := logger.With().Str("collection", resource.Plural).Logger()

	return &documentHTTPHandler{
		resource:  resource,
		documents: documents,
		logger:    &l,
	}
}

func (h *documentHTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documents.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list documents")
		utilities.WriteMessage(w, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch %s", h.resource.Plural))
		return
	}

	if len(docs) == 0 && h.resource.NotFoundWhenEmpty {
		utilities.WriteMessage(w, http.StatusNotFound, fmt.Sprintf("No %s found", h.resource.Plural))
		return
	}

	h.writeJSON(w, http.StatusOK, docs)
}

func (h *documentHTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		utilities.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.documents.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			utilities.WriteMessage(w, http.StatusNotFound, fmt.Sprintf("%s not found", h.resource.Singular))
			return
		}

		h.logger.Error().Err(err).Str("id", id.String()).Msg("failed to get document")
		utilities.WriteMessage(w, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch %s", h.resource.Singular))
		return
	}

	h.writeJSON(w, http.StatusOK, doc)
}

func (h *documentHTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	invalid := fmt.Sprintf("invalid new %s", h.resource.Singular)

	doc, err := decodeDocument(w, r)
	if err != nil {
		utilities.WriteMessage(w, http.StatusBadRequest, invalid)
		return
	}

	result, err := h.documents.Create(r.Context(), doc)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyDocument) {
			utilities.WriteMessage(w, http.StatusBadRequest, invalid)
			return
		}

		h.logger.Error().Err(err).Msg("failed to create document")
		utilities.WriteMessage(w, http.StatusInternalServerError, fmt.Sprintf("Failed to create a new %s", h.resource.Singular))
		return
	}

	h.writeJSON(w, http.StatusCreated, result)
}

func (h *documentHTTPHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		utilities.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	invalid := fmt.Sprintf("invalid %s update", h.resource.Singular)

	fields, err := decodeDocument(w, r)
	if err != nil {
		utilities.WriteMessage(w, http.StatusBadRequest, invalid)
		return
	}

	result, err := h.documents.Patch(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyPatch) {
			utilities.WriteMessage(w, http.StatusBadRequest, invalid)
			return
		}

		h.logger.Error().Err(err).Str("id", id.String()).Msg("failed to patch document")
		utilities.WriteMessage(w, http.StatusInternalServerError, fmt.Sprintf("Failed to update %s", h.resource.Singular))
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *documentHTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		utilities.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.documents.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Str("id", id.String()).Msg("failed to delete document")
		utilities.WriteMessage(w, http.StatusInternalServerError, fmt.Sprintf("Failed to delete %s", h.resource.Singular))
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *documentHTTPHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	if err := utilities.WriteJSON(w, status, body); err != nil {
		h.logger.Error().Err(err).Msg("failed to write response")
	}
}
