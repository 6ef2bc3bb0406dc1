package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tree representa uma árvore geradora de crédito vinculada a um lote,
// com a geolocalização usada para rastreabilidade.
type Tree struct {
	ID        uuid.UUID `json:"id"`
	LotID     uuid.UUID `json:"lot_id"`
	Species   string    `json:"species"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTree cria uma árvore validando espécie e coordenadas.
func NewTree(lotID uuid.UUID, species string, latitude, longitude float64) (Tree, error) {
	species = strings.TrimSpace(species)
	if species == "" {
		return Tree{}, ErrBlankSpecies
	}
	if latitude < -90 || latitude > 90 {
		return Tree{}, ErrInvalidLatitude
	}
	if longitude < -180 || longitude > 180 {
		return Tree{}, ErrInvalidLongitude
	}

	return Tree{
		ID:        uuid.New(),
		LotID:     lotID,
		Species:   species,
		Latitude:  latitude,
		Longitude: longitude,
		CreatedAt: time.Now(),
	}, nil
}
