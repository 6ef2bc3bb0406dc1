package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ferreirogomes/carbono/models"
	"github.com/ferreirogomes/carbono/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// OwnerHandler lida com requisições HTTP de proprietários.
type OwnerHandler struct {
	Service *services.RegistryService
}

// NewOwnerHandler cria uma nova instância do handler de proprietários.
func NewOwnerHandler(s *services.RegistryService) *OwnerHandler {
	return &OwnerHandler{Service: s}
}

// CreateOwnerRequest é o corpo de cadastro de proprietário.
type CreateOwnerRequest struct {
	Name     string `json:"name" validate:"required"`
	Document string `json:"document" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=PF PJ"`
}

// CreateOwner cadastra um novo proprietário.
// POST /owners
func (h *OwnerHandler) CreateOwner(w http.ResponseWriter, r *http.Request) {
	var req CreateOwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	owner, err := h.Service.RegisterOwner(req.Name, req.Document, models.OwnerKind(req.Type))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, owner)
}

// GetOwnerByID obtém um proprietário pelo ID.
// GET /owners/{id}
func (h *OwnerHandler) GetOwnerByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "ID do proprietário inválido", http.StatusBadRequest)
		return
	}

	owner, err := h.Service.GetOwner(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, owner)
}

// ListOwners lista os proprietários cadastrados.
// GET /owners
func (h *OwnerHandler) ListOwners(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.ListOwners())
}
