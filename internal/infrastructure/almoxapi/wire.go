package almoxapi

import (
	"time"

	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/hierarchy"
)

// ── Movimentações ─────────────────────────────────────────────────────────────

type wireRef struct {
	Tipo string     `json:"tipo"`
	ID   flexString `json:"id"`
	Nome string     `json:"nome"`
}

type wireMovement struct {
	ID               flexString  `json:"id"`
	MongoID          flexString  `json:"_id"`
	TipoMovimentacao string      `json:"tipo_movimentacao"`
	Tipo             string      `json:"tipo"`
	ProdutoID        flexString  `json:"produto_id"`
	ProdutoNome      string      `json:"produto_nome"`
	Quantidade       flexDecimal `json:"quantidade"`

	Origem     *wireRef   `json:"origem"`
	OrigemTipo string     `json:"origem_tipo"`
	LocalTipo  string     `json:"local_tipo"`
	OrigemID   flexString `json:"origem_id"`
	LocalID    flexString `json:"local_id"`
	OrigemNome string     `json:"origem_nome"`

	OrigemAlmoxarifadoID    flexString `json:"origem_almoxarifado_id"`
	OrigemSubAlmoxarifadoID flexString `json:"origem_sub_almoxarifado_id"`
	OrigemSetorID           flexString `json:"origem_setor_id"`

	Destino     *wireRef   `json:"destino"`
	DestinoTipo string     `json:"destino_tipo"`
	DestinoID   flexString `json:"destino_id"`
	DestinoNome string     `json:"destino_nome"`

	DestinoAlmoxarifadoID    flexString `json:"destino_almoxarifado_id"`
	DestinoSubAlmoxarifadoID flexString `json:"destino_sub_almoxarifado_id"`
	DestinoSetorID           flexString `json:"destino_setor_id"`

	DataMovimentacao   flexTime `json:"data_movimentacao"`
	CreatedAt          flexTime `json:"created_at"`
	UsuarioResponsavel string   `json:"usuario_responsavel"`
	Motivo             string   `json:"motivo"`
	Observacoes        string   `json:"observacoes"`
}

// columnRef deduce tipo e id de las columnas *_almoxarifado_id / *_sub_almoxarifado_id / *_setor_id.
func columnRef(almox, sub, setor flexString) (string, string) {
	switch {
	case almox != "":
		return string(hierarchy.Almoxarifado), string(almox)
	case sub != "":
		return string(hierarchy.SubAlmoxarifado), string(sub)
	case setor != "":
		return string(hierarchy.Setor), string(setor)
	}
	return "", ""
}

func buildRef(nested *wireRef, rawType, id, name string) entity.LocationRef {
	if nested != nil {
		rawType = firstString(nested.Tipo, rawType)
		id = firstString(string(nested.ID), id)
		name = firstString(nested.Nome, name)
	}
	return entity.LocationRef{
		RawType: rawType,
		Type:    hierarchy.NormalizeLevel(rawType),
		ID:      hierarchy.NormalizeIdentifier(id),
		Name:    name,
	}
}

func (w wireMovement) toEntity(loc *time.Location) entity.Movement {
	colType, colID := columnRef(w.OrigemAlmoxarifadoID, w.OrigemSubAlmoxarifadoID, w.OrigemSetorID)
	origin := buildRef(w.Origem,
		firstString(w.OrigemTipo, w.LocalTipo, colType),
		firstID(w.OrigemID, w.LocalID, flexString(colID)),
		w.OrigemNome)

	dColType, dColID := columnRef(w.DestinoAlmoxarifadoID, w.DestinoSubAlmoxarifadoID, w.DestinoSetorID)
	dest := buildRef(w.Destino,
		firstString(w.DestinoTipo, dColType),
		firstID(w.DestinoID, flexString(dColID)),
		w.DestinoNome)

	return entity.Movement{
		ID:              firstID(w.ID, w.MongoID),
		Type:            hierarchy.NormalizeMovementType(firstString(w.TipoMovimentacao, w.Tipo)),
		ProductID:       string(w.ProdutoID),
		ProductName:     w.ProdutoNome,
		Quantity:        w.Quantidade.NullDecimal,
		Origin:          origin,
		Destination:     dest,
		Timestamp:       firstTime(loc, w.DataMovimentacao, w.CreatedAt),
		ResponsibleUser: w.UsuarioResponsavel,
		Reason:          w.Motivo,
		Notes:           w.Observacoes,
	}
}

// ── Estoque ───────────────────────────────────────────────────────────────────

type wireStock struct {
	ProdutoID            flexString  `json:"produto_id"`
	ProdutoNome          string      `json:"produto_nome"`
	ProdutoCodigo        string      `json:"produto_codigo"`
	UnidadeMedida        string      `json:"unidade_medida"`
	LocalTipo            string      `json:"local_tipo"`
	LocalID              flexString  `json:"local_id"`
	LocalNome            string      `json:"local_nome"`
	Quantidade           flexDecimal `json:"quantidade"`
	QuantidadeDisponivel flexDecimal `json:"quantidade_disponivel"`
	QuantidadeInicial    flexDecimal `json:"quantidade_inicial"`
	DataAtualizacao      flexTime    `json:"data_atualizacao"`
	UltimaAtualizacao    flexTime    `json:"ultima_atualizacao"`
}

func (w wireStock) toEntity(loc *time.Location) entity.StockRecord {
	total := w.Quantidade.Or(zero)
	return entity.StockRecord{
		ProductID:         string(w.ProdutoID),
		ProductName:       w.ProdutoNome,
		ProductCode:       w.ProdutoCodigo,
		Unit:              w.UnidadeMedida,
		RawLocationType:   w.LocalTipo,
		LocationType:      hierarchy.NormalizeLevel(w.LocalTipo),
		LocationID:        string(w.LocalID),
		LocationName:      w.LocalNome,
		QuantityTotal:     total,
		QuantityAvailable: w.QuantidadeDisponivel.Or(zero),
		HasAvailable:      w.QuantidadeDisponivel.Valid,
		QuantityInitial:   w.QuantidadeInicial.Or(zero),
		LastUpdated:       firstTime(loc, w.DataAtualizacao, w.UltimaAtualizacao),
	}
}

type wireProductStock struct {
	Tipo                 string      `json:"tipo"`
	LocalID              flexString  `json:"local_id"`
	SetorID              flexString  `json:"setor_id"`
	NomeLocal            string      `json:"nome_local"`
	Quantidade           flexDecimal `json:"quantidade"`
	QuantidadeDisponivel flexDecimal `json:"quantidade_disponivel"`
	DataAtualizacao      flexTime    `json:"data_atualizacao"`
}

func (w wireProductStock) toEntity(loc *time.Location) entity.ProductStockRow {
	total := w.Quantidade.Or(zero)
	return entity.ProductStockRow{
		LocationType:      hierarchy.NormalizeLevel(w.Tipo),
		LocationID:        firstID(w.LocalID, w.SetorID),
		LocationName:      w.NomeLocal,
		Quantity:          total,
		QuantityAvailable: w.QuantidadeDisponivel.Or(total),
		LastUpdated:       w.DataAtualizacao.In(loc),
	}
}

// ── Lotes ─────────────────────────────────────────────────────────────────────

type wireLot struct {
	ProdutoID      flexString `json:"produto_id"`
	ProdutoNome    string     `json:"produto_nome"`
	NumeroLote     string     `json:"numero_lote"`
	Lote           string     `json:"lote"`
	DataFabricacao flexTime   `json:"data_fabricacao"`
	DataVencimento flexTime   `json:"data_vencimento"`
}

func (w wireLot) toEntity(loc *time.Location) entity.Lot {
	return entity.Lot{
		ProductID:       string(w.ProdutoID),
		ProductName:     w.ProdutoNome,
		LotNumber:       firstString(w.NumeroLote, w.Lote),
		ManufactureDate: w.DataFabricacao.In(loc),
		ExpiryDate:      w.DataVencimento.In(loc),
	}
}

// ── Productos y locales ───────────────────────────────────────────────────────

type wireProduct struct {
	ID            flexString `json:"id"`
	MongoID       flexString `json:"_id"`
	Codigo        string     `json:"codigo"`
	Nome          string     `json:"nome"`
	Descricao     string     `json:"descricao"`
	UnidadeMedida string     `json:"unidade_medida"`
	CategoriaID   flexString `json:"categoria_id"`
	CentralID     flexString `json:"central_id"`
	Ativo         flexBool   `json:"ativo"`
}

func (w wireProduct) toEntity() entity.Product {
	return entity.Product{
		ID:          firstID(w.ID, w.MongoID),
		Code:        w.Codigo,
		Name:        firstString(w.Nome, w.Descricao),
		Description: w.Descricao,
		Unit:        w.UnidadeMedida,
		CategoryID:  string(w.CategoriaID),
		CentralID:   string(w.CentralID),
		Active:      !w.Ativo.Set || w.Ativo.Value,
	}
}

type wireCategory struct {
	ID     flexString `json:"id"`
	Codigo string     `json:"codigo"`
	Nome   string     `json:"nome"`
}

type wireLocation struct {
	ID        flexString `json:"id"`
	MongoID   flexString `json:"_id"`
	Codigo    string     `json:"codigo"`
	Nome      string     `json:"nome"`
	Descricao string     `json:"descricao"`
	Tipo      string     `json:"tipo"`
	CentralID flexString `json:"central_id"`
}

func (w wireLocation) toEntity(level hierarchy.Level) entity.Location {
	if w.Tipo != "" {
		level = hierarchy.NormalizeLevel(w.Tipo)
	}
	id := firstID(w.ID, w.MongoID, flexString(w.Codigo))
	return entity.Location{
		ID:        id,
		Name:      firstString(w.Nome, w.Descricao, id),
		Level:     level,
		CentralID: string(w.CentralID),
	}
}

type wireSector struct {
	ID                 flexString `json:"id"`
	MongoID            flexString `json:"_id"`
	Nome               string     `json:"nome"`
	Descricao          string     `json:"descricao"`
	CentralIDs         flexIDs    `json:"central_ids"`
	AlmoxarifadoIDs    flexIDs    `json:"almoxarifado_ids"`
	SubAlmoxarifadoIDs flexIDs    `json:"sub_almoxarifado_ids"`
	CentralID          flexString `json:"central_id"`
	AlmoxarifadoID     flexString `json:"almoxarifado_id"`
	SubAlmoxarifadoID  flexString `json:"sub_almoxarifado_id"`
}

func idsOr(list flexIDs, single flexString) []string {
	if ids := list.Strings(); len(ids) > 0 {
		return ids
	}
	if single != "" {
		return []string{string(single)}
	}
	return []string{}
}

func (w wireSector) toEntity() entity.Sector {
	return entity.Sector{
		ID:                 firstID(w.ID, w.MongoID),
		Name:               firstString(w.Nome, w.Descricao, "Setor"),
		CentralIDs:         idsOr(w.CentralIDs, w.CentralID),
		AlmoxarifadoIDs:    idsOr(w.AlmoxarifadoIDs, w.AlmoxarifadoID),
		SubAlmoxarifadoIDs: idsOr(w.SubAlmoxarifadoIDs, w.SubAlmoxarifadoID),
	}
}

// ── Demandas ──────────────────────────────────────────────────────────────────

type wireDemand struct {
	ID                   flexString  `json:"id"`
	MongoID              flexString  `json:"_id"`
	DisplayID            flexString  `json:"display_id"`
	ProdutoID            flexString  `json:"produto_id"`
	ProdutoNome          string      `json:"produto_nome"`
	SetorID              flexString  `json:"setor_id"`
	SetorNome            string      `json:"setor_nome"`
	QuantidadeSolicitada flexDecimal `json:"quantidade_solicitada"`
	UnidadeMedida        string      `json:"unidade_medida"`
	DestinoTipo          string      `json:"destino_tipo"`
	Status               string      `json:"status"`
	ItemsCount           flexInt     `json:"items_count"`
	CreatedAt            flexTime    `json:"created_at"`
	UpdatedAt            flexTime    `json:"updated_at"`
}

func (w wireDemand) toEntity(loc *time.Location) entity.Demand {
	id := firstID(w.ID, w.MongoID)
	return entity.Demand{
		ID:                id,
		DisplayID:         firstID(w.DisplayID, flexString(id)),
		ProductID:         string(w.ProdutoID),
		ProductName:       w.ProdutoNome,
		SectorID:          string(w.SetorID),
		SectorName:        w.SetorNome,
		QuantityRequested: w.QuantidadeSolicitada.Or(zero),
		Unit:              w.UnidadeMedida,
		DestinationType:   w.DestinoTipo,
		Status:            w.Status,
		ItemsCount:        w.ItemsCount.Value,
		CreatedAt:         w.CreatedAt.In(loc),
		UpdatedAt:         w.UpdatedAt.In(loc),
	}
}

type wireDraftItem struct {
	ID          flexString  `json:"id"`
	MongoID     flexString  `json:"_id"`
	ProdutoID   flexString  `json:"produto_id"`
	ProdutoNome string      `json:"produto_nome"`
	Quantidade  flexDecimal `json:"quantidade"`
	Observacao  string      `json:"observacao"`
}

func (w wireDraftItem) toEntity() entity.DraftDemandItem {
	return entity.DraftDemandItem{
		ID:          firstID(w.ID, w.MongoID),
		ProductID:   string(w.ProdutoID),
		ProductName: w.ProdutoNome,
		Quantity:    w.Quantidade.Or(zero),
		Note:        w.Observacao,
	}
}
