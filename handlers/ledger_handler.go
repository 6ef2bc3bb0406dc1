package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ferreirogomes/carbono/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerHandler lida com requisições HTTP do ledger de participações, das
// vendas e dos relatórios de um lote.
type LedgerHandler struct {
	Ledger   *services.LedgerService
	Transfer *services.TransferService
	Report   *services.ReportService
}

// NewLedgerHandler cria uma nova instância do handler do ledger.
func NewLedgerHandler(ledger *services.LedgerService, transfer *services.TransferService, report *services.ReportService) *LedgerHandler {
	return &LedgerHandler{Ledger: ledger, Transfer: transfer, Report: report}
}

// SetInitialSharesRequest é o corpo de definição da copropriedade
// inicial: mapa de ID do proprietário para quantidade de créditos.
type SetInitialSharesRequest struct {
	Shares map[string]int `json:"shares" validate:"required,min=1"`
}

// SetInitialShares define a copropriedade inicial do lote.
// POST /lots/{id}/participations
func (h *LedgerHandler) SetInitialShares(w http.ResponseWriter, r *http.Request) {
	lotID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "ID do lote inválido", http.StatusBadRequest)
		return
	}

	var req SetInitialSharesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	shares := make(map[uuid.UUID]int, len(req.Shares))
	for ownerID, credits := range req.Shares {
		id, err := uuid.Parse(ownerID)
		if err != nil {
			http.Error(w, "ID de proprietário inválido: "+ownerID, http.StatusBadRequest)
			return
		}
		shares[id] = credits
	}

	parts, err := h.Ledger.SetInitialShares(lotID, shares)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, parts)
}

// GetActiveParticipations lista as participações ativas do lote.
// GET /lots/{id}/participations
func (h *LedgerHandler) GetActiveParticipations(w http.ResponseWriter, r *http.Request) {
	lotID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "ID do lote inválido", http.StatusBadRequest)
		return
	}

	parts, err := h.Ledger.ActiveParticipations(lotID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, parts)
}

// GetParticipationHistory lista todas as participações do lote.
// GET /lots/{id}/participations/history
func (h *LedgerHandler) GetParticipationHistory(w http.ResponseWriter, r *http.Request) {
	lotID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "ID do lote inválido", http.StatusBadRequest)
		return
	}

	history, err := h.Ledger.ParticipationHistory(lotID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, history)
}

// SellLotRequest é o corpo de venda de lote. O valor vem como string
// decimal para não perder precisão (ex: "1500.00").
type SellLotRequest struct {
	SellerIDs []string `json:"seller_ids" validate:"required,min=1,max=3"`
	BuyerID   string   `json:"buyer_id" validate:"required"`
	Amount    string   `json:"amount" validate:"required"`
}

// SellLot executa a venda do lote pelos coproprietários atuais.
// POST /lots/{id}/sales
func (h *LedgerHandler) SellLot(w http.ResponseWriter, r *http.Request) {
	lotID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "ID do lote inválido", http.StatusBadRequest)
		return
	}

	var req SellLotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sellerIDs := make([]uuid.UUID, 0, len(req.SellerIDs))
	for _, raw := range req.SellerIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "ID de vendedor inválido: "+raw, http.StatusBadRequest)
			return
		}
		sellerIDs = append(sellerIDs, id)
	}

	buyerID, err := uuid.Parse(req.BuyerID)
	if err != nil {
		http.Error(w, "ID do comprador inválido", http.StatusBadRequest)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		http.Error(w, "valor da transação inválido: "+req.Amount, http.StatusBadRequest)
		return
	}

	tx, err := h.Transfer.SellLot(lotID, sellerIDs, buyerID, amount)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

// GetTransactionHistory lista o histórico de vendas do lote.
// GET /lots/{id}/transactions
func (h *LedgerHandler) GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	lotID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "ID do lote inválido", http.StatusBadRequest)
		return
	}

	txs, err := h.Transfer.TransactionHistory(lotID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, txs)
}

// GetLotReport monta o relatório consolidado do lote.
// GET /lots/{id}/report
func (h *LedgerHandler) GetLotReport(w http.ResponseWriter, r *http.Request) {
	lotID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "ID do lote inválido", http.StatusBadRequest)
		return
	}

	report, err := h.Report.LotReport(lotID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
