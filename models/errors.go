package models

import (
	"errors"
	"fmt"
)

// Erros de regra de negócio do domínio. Os handlers usam errors.Is /
// errors.As para mapear cada um a um status HTTP.
var (
	ErrUnknownOwner      = errors.New("proprietário não encontrado")
	ErrUnknownLot        = errors.New("lote não encontrado")
	ErrDuplicateDocument = errors.New("já existe proprietário com este documento")
	ErrDuplicateLotCode  = errors.New("já existe lote com este código")
	ErrLotNotAvailable   = errors.New("lote não está disponível")

	ErrLotAlreadyHasOwners      = errors.New("lote já possui proprietários definidos")
	ErrEmptyOrOversizedShareSet = errors.New("o conjunto de participações deve ter entre 1 e 3 entradas")
	ErrInvalidShareQuantity     = errors.New("quantidade de créditos deve ser maior que zero")

	ErrInvalidSellerSet    = errors.New("o conjunto de vendedores deve ter entre 1 e 3 proprietários distintos")
	ErrSellerSetMismatch   = errors.New("os vendedores não correspondem aos proprietários atuais do lote")
	ErrBuyerCannotBeSeller = errors.New("comprador não pode ser um dos vendedores")
	ErrInvalidAmount       = errors.New("valor da transação inválido")

	// ErrLedgerCorruption indica que as invariantes de participação já
	// estavam quebradas antes da operação. É falha interna, não erro do
	// usuário: a operação é recusada para não agravar a inconsistência.
	ErrLedgerCorruption = errors.New("inconsistência interna nas participações do lote")

	// ErrParticipationAlreadyClosed é violação de contrato (tentativa de
	// encerrar uma participação já encerrada), nunca disparada pelo fluxo
	// normal de venda.
	ErrParticipationAlreadyClosed = errors.New("participação já encerrada")
)

// Erros de validação de entidade.
var (
	ErrBlankOwnerName   = errors.New("nome do proprietário não pode ser vazio")
	ErrBlankDocument    = errors.New("documento do proprietário não pode ser vazio")
	ErrInvalidOwnerKind = errors.New("tipo de proprietário deve ser PF ou PJ")
	ErrBlankLotCode     = errors.New("código do lote não pode ser vazio")
	ErrBlankSpecies     = errors.New("espécie da árvore não pode ser vazia")
	ErrInvalidLatitude  = errors.New("latitude fora do intervalo [-90, 90]")
	ErrInvalidLongitude = errors.New("longitude fora do intervalo [-180, 180]")
	ErrInvalidLotStatus = errors.New("status de lote desconhecido")
)

// ShareSumMismatchError é retornado quando a soma das participações
// iniciais difere do total fixo do lote. Carrega a soma calculada para a
// mensagem ao usuário.
type ShareSumMismatchError struct {
	Sum      int
	Required int
}

func (e *ShareSumMismatchError) Error() string {
	return fmt.Sprintf("soma das participações (%d) difere do total do lote (%d)", e.Sum, e.Required)
}
