package services

import (
	"github.com/ferreirogomes/carbono/models"
	"github.com/ferreirogomes/carbono/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegistryService cuida dos cadastros que cercam o ledger: proprietários,
// lotes e as árvores que justificam a emissão dos créditos. São operações
// simples de criar/validar/listar, sem invariantes além de unicidade.
type RegistryService struct {
	DB  *storage.MemDB
	Log *zap.Logger
}

// NewRegistryService cria uma nova instância do serviço de cadastro.
func NewRegistryService(db *storage.MemDB, log *zap.Logger) *RegistryService {
	return &RegistryService{DB: db, Log: log}
}

// RegisterOwner cadastra um proprietário (PF ou PJ). Documento é único.
func (s *RegistryService) RegisterOwner(name, document string, kind models.OwnerKind) (models.Owner, error) {
	owner, err := models.NewOwner(name, document, kind)
	if err != nil {
		return models.Owner{}, err
	}

	if err := s.DB.SaveOwner(owner); err != nil {
		return models.Owner{}, err
	}

	s.Log.Info("proprietário cadastrado",
		zap.String("owner_id", owner.ID.String()),
		zap.String("kind", string(owner.Kind)),
	)
	return owner, nil
}

// GetOwner busca um proprietário pelo ID.
func (s *RegistryService) GetOwner(id uuid.UUID) (models.Owner, error) {
	owner, found := s.DB.GetOwner(id)
	if !found {
		return models.Owner{}, models.ErrUnknownOwner
	}
	return owner, nil
}

// ListOwners lista os proprietários ordenados por nome.
func (s *RegistryService) ListOwners() []models.Owner {
	return s.DB.ListOwners()
}

// CreateLot cria um lote com código único e o total fixo de créditos.
func (s *RegistryService) CreateLot(code string) (models.Lot, error) {
	lot, err := models.NewLot(code)
	if err != nil {
		return models.Lot{}, err
	}

	if err := s.DB.SaveLot(lot); err != nil {
		return models.Lot{}, err
	}

	s.Log.Info("lote criado",
		zap.String("lot_id", lot.ID.String()),
		zap.String("code", lot.Code),
	)
	return lot, nil
}

// GetLot busca um lote pelo ID.
func (s *RegistryService) GetLot(id uuid.UUID) (models.Lot, error) {
	lot, found := s.DB.GetLot(id)
	if !found {
		return models.Lot{}, models.ErrUnknownLot
	}
	return lot, nil
}

// ListLots lista os lotes ordenados por código.
func (s *RegistryService) ListLots() []models.Lot {
	return s.DB.ListLots()
}

// UpdateLotStatus muda o status do lote. Usado pelo sistema ao redor;
// ledger e transferência apenas leem o status.
func (s *RegistryService) UpdateLotStatus(id uuid.UUID, status models.LotStatus) (models.Lot, error) {
	if !status.Valid() {
		return models.Lot{}, models.ErrInvalidLotStatus
	}
	return s.DB.UpdateLotStatus(id, status)
}

// RegisterTree registra uma árvore geradora de crédito em um lote. O
// lote precisa estar DISPONIVEL.
func (s *RegistryService) RegisterTree(lotID uuid.UUID, species string, latitude, longitude float64) (models.Tree, error) {
	lot, found := s.DB.GetLot(lotID)
	if !found {
		return models.Tree{}, models.ErrUnknownLot
	}
	if lot.Status != models.LotStatusAvailable {
		return models.Tree{}, models.ErrLotNotAvailable
	}

	tree, err := models.NewTree(lotID, species, latitude, longitude)
	if err != nil {
		return models.Tree{}, err
	}

	s.DB.AddTree(tree)
	return tree, nil
}

// ListTrees lista as árvores registradas em um lote.
func (s *RegistryService) ListTrees(lotID uuid.UUID) ([]models.Tree, error) {
	if _, found := s.DB.GetLot(lotID); !found {
		return nil, models.ErrUnknownLot
	}
	return s.DB.GetTreesByLotID(lotID), nil
}
