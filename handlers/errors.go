package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ferreirogomes/carbono/models"
)

// writeError mapeia os erros de regra de negócio do domínio para status
// HTTP. Erros fora da taxonomia viram 500.
func writeError(w http.ResponseWriter, err error) {
	var mismatch *models.ShareSumMismatchError

	switch {
	case errors.Is(err, models.ErrUnknownOwner),
		errors.Is(err, models.ErrUnknownLot):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrDuplicateDocument),
		errors.Is(err, models.ErrDuplicateLotCode),
		errors.Is(err, models.ErrLotAlreadyHasOwners),
		errors.Is(err, models.ErrLotNotAvailable):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &mismatch),
		errors.Is(err, models.ErrEmptyOrOversizedShareSet),
		errors.Is(err, models.ErrInvalidShareQuantity),
		errors.Is(err, models.ErrInvalidSellerSet),
		errors.Is(err, models.ErrSellerSetMismatch),
		errors.Is(err, models.ErrBuyerCannotBeSeller),
		errors.Is(err, models.ErrInvalidAmount):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, models.ErrBlankOwnerName),
		errors.Is(err, models.ErrBlankDocument),
		errors.Is(err, models.ErrInvalidOwnerKind),
		errors.Is(err, models.ErrBlankLotCode),
		errors.Is(err, models.ErrBlankSpecies),
		errors.Is(err, models.ErrInvalidLatitude),
		errors.Is(err, models.ErrInvalidLongitude),
		errors.Is(err, models.ErrInvalidLotStatus):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeJSON escreve a resposta JSON com o status informado.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
