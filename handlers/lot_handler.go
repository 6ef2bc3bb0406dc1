package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ferreirogomes/carbono/models"
	"github.com/ferreirogomes/carbono/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// LotHandler lida com requisições HTTP de lotes e árvores.
type LotHandler struct {
	Service *services.RegistryService
}

// NewLotHandler cria uma nova instância do handler de lotes.
func NewLotHandler(s *services.RegistryService) *LotHandler {
	return &LotHandler{Service: s}
}

// CreateLotRequest é o corpo de criação de lote. O total de créditos é
// fixo (1000), então só o código é informado.
type CreateLotRequest struct {
	Code string `json:"code" validate:"required"`
}

// CreateLot cria um novo lote.
// POST /lots
func (h *LotHandler) CreateLot(w http.ResponseWriter, r *http.Request) {
	var req CreateLotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	lot, err := h.Service.CreateLot(req.Code)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, lot)
}

// GetLotByID obtém um lote pelo ID.
// GET /lots/{id}
func (h *LotHandler) GetLotByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "ID do lote inválido", http.StatusBadRequest)
		return
	}

	lot, err := h.Service.GetLot(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lot)
}

// ListLots lista os lotes cadastrados.
// GET /lots
func (h *LotHandler) ListLots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.ListLots())
}

// UpdateLotStatusRequest é o corpo de atualização de status.
type UpdateLotStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DISPONIVEL INDISPONIVEL"`
}

// UpdateLotStatus muda o status de ciclo de vida do lote.
// PUT /lots/{id}/status
func (h *LotHandler) UpdateLotStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "ID do lote inválido", http.StatusBadRequest)
		return
	}

	var req UpdateLotStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	lot, err := h.Service.UpdateLotStatus(id, models.LotStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lot)
}

// RegisterTreeRequest é o corpo de registro de árvore.
type RegisterTreeRequest struct {
	Species   string  `json:"species" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// RegisterTree registra uma árvore geradora de crédito no lote.
// POST /lots/{id}/trees
func (h *LotHandler) RegisterTree(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "ID do lote inválido", http.StatusBadRequest)
		return
	}

	var req RegisterTreeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tree, err := h.Service.RegisterTree(id, req.Species, req.Latitude, req.Longitude)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tree)
}

// ListTreesByLotID lista as árvores registradas no lote.
// GET /lots/{id}/trees
func (h *LotHandler) ListTreesByLotID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "ID do lote inválido", http.StatusBadRequest)
		return
	}

	trees, err := h.Service.ListTrees(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, trees)
}
