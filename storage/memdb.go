package storage

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ferreirogomes/carbono/models"

	"github.com/google/uuid"
)

// MemDB é o armazenamento em memória do sistema. O ledger não persiste
// entre reinícios do processo; toda a consistência é garantida aqui e
// nos serviços.
//
// Modelo de concorrência:
//   - cada método é atômico sob o mutex global, então leituras nunca
//     observam um lote no meio de uma transição (CommitSale aplica
//     encerramentos, nova participação e transação em uma única seção
//     crítica);
//   - sequências de validar-e-gravar dos serviços se serializam por lote
//     através de LotMutex, sem bloquear operações em outros lotes.
type MemDB struct {
	mu             sync.RWMutex
	owners         map[uuid.UUID]models.Owner
	lots           map[uuid.UUID]models.Lot
	trees          map[uuid.UUID][]models.Tree
	participations map[uuid.UUID][]*models.Participation
	transactions   map[uuid.UUID][]models.Transaction

	lockMu   sync.Mutex
	lotLocks map[uuid.UUID]*sync.Mutex
}

// NewMemDB cria um armazenamento vazio.
func NewMemDB() *MemDB {
	return &MemDB{
		owners:         make(map[uuid.UUID]models.Owner),
		lots:           make(map[uuid.UUID]models.Lot),
		trees:          make(map[uuid.UUID][]models.Tree),
		participations: make(map[uuid.UUID][]*models.Participation),
		transactions:   make(map[uuid.UUID][]models.Transaction),
		lotLocks:       make(map[uuid.UUID]*sync.Mutex),
	}
}

// LotMutex retorna o mutex exclusivo do lote, criado sob demanda. Os
// serviços o seguram da validação até o commit de operações mutantes.
func (d *MemDB) LotMutex(lotID uuid.UUID) *sync.Mutex {
	d.lockMu.Lock()
	defer d.lockMu.Unlock()

	m, ok := d.lotLocks[lotID]
	if !ok {
		m = &sync.Mutex{}
		d.lotLocks[lotID] = m
	}
	return m
}

// SaveOwner grava um proprietário, rejeitando documento duplicado
// (comparação sem distinção de maiúsculas, como no cadastro de origem).
func (d *MemDB) SaveOwner(owner models.Owner) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.owners {
		if strings.EqualFold(existing.Document, owner.Document) {
			return models.ErrDuplicateDocument
		}
	}

	d.owners[owner.ID] = owner
	return nil
}

// GetOwner busca um proprietário pelo ID.
func (d *MemDB) GetOwner(id uuid.UUID) (models.Owner, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	owner, found := d.owners[id]
	return owner, found
}

// OwnerExists indica se o proprietário está cadastrado.
func (d *MemDB) OwnerExists(id uuid.UUID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, found := d.owners[id]
	return found
}

// ListOwners retorna os proprietários ordenados por nome.
func (d *MemDB) ListOwners() []models.Owner {
	d.mu.RLock()
	defer d.mu.RUnlock()

	owners := make([]models.Owner, 0, len(d.owners))
	for _, o := range d.owners {
		owners = append(owners, o)
	}
	sort.Slice(owners, func(i, j int) bool {
		return owners[i].Name < owners[j].Name
	})
	return owners
}

// SaveLot grava um lote, rejeitando código duplicado.
func (d *MemDB) SaveLot(lot models.Lot) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.lots {
		if strings.EqualFold(existing.Code, lot.Code) {
			return models.ErrDuplicateLotCode
		}
	}

	d.lots[lot.ID] = lot
	return nil
}

// GetLot busca um lote pelo ID.
func (d *MemDB) GetLot(id uuid.UUID) (models.Lot, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	lot, found := d.lots[id]
	return lot, found
}

// ListLots retorna os lotes ordenados por código.
func (d *MemDB) ListLots() []models.Lot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	lots := make([]models.Lot, 0, len(d.lots))
	for _, l := range d.lots {
		lots = append(lots, l)
	}
	sort.Slice(lots, func(i, j int) bool {
		return lots[i].Code < lots[j].Code
	})
	return lots
}

// UpdateLotStatus muda o status de ciclo de vida de um lote. O status é
// mutado apenas pelo sistema ao redor; ledger e transferência só o leem.
func (d *MemDB) UpdateLotStatus(id uuid.UUID, status models.LotStatus) (models.Lot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	lot, found := d.lots[id]
	if !found {
		return models.Lot{}, models.ErrUnknownLot
	}

	lot.Status = status
	d.lots[id] = lot
	return lot, nil
}

// AddTree vincula uma árvore ao seu lote.
func (d *MemDB) AddTree(tree models.Tree) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.trees[tree.LotID] = append(d.trees[tree.LotID], tree)
}

// GetTreesByLotID retorna as árvores registradas no lote.
func (d *MemDB) GetTreesByLotID(lotID uuid.UUID) []models.Tree {
	d.mu.RLock()
	defer d.mu.RUnlock()

	trees := make([]models.Tree, len(d.trees[lotID]))
	copy(trees, d.trees[lotID])
	return trees
}

// AddParticipations acrescenta participações ao lote em uma única seção
// crítica, para que nenhuma leitura observe o conjunto pela metade.
func (d *MemDB) AddParticipations(lotID uuid.UUID, parts []*models.Participation) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.participations[lotID] = append(d.participations[lotID], parts...)
}

// GetParticipationsByLotID retorna cópias de todas as participações do
// lote (ativas e encerradas). Cópias por valor: quem lê não enxerga
// mutações posteriores do ledger.
func (d *MemDB) GetParticipationsByLotID(lotID uuid.UUID) []models.Participation {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stored := d.participations[lotID]
	parts := make([]models.Participation, 0, len(stored))
	for _, p := range stored {
		parts = append(parts, *p)
	}
	return parts
}

// CommitSale aplica o efeito de uma venda de forma atômica: encerra todas
// as participações ativas do lote no instante do commit, cria a
// participação do comprador e registra a transação.
func (d *MemDB) CommitSale(lotID uuid.UUID, endedAt time.Time, buyerPart *models.Participation, tx models.Transaction) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, p := range d.participations[lotID] {
		if !p.Active() {
			continue
		}
		if err := p.Close(endedAt); err != nil {
			return err
		}
	}

	d.participations[lotID] = append(d.participations[lotID], buyerPart)
	d.transactions[lotID] = append(d.transactions[lotID], tx)
	return nil
}

// GetTransactionsByLotID retorna o histórico de transações do lote em
// ordem de registro. Slice vazio (não nil) quando não houve vendas.
func (d *MemDB) GetTransactionsByLotID(lotID uuid.UUID) []models.Transaction {
	d.mu.RLock()
	defer d.mu.RUnlock()

	txs := make([]models.Transaction, len(d.transactions[lotID]))
	copy(txs, d.transactions[lotID])
	return txs
}
