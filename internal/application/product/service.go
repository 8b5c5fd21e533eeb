// Package product contiene el cadastro de produtos y el registro de recebimento.
package product

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/application/ports"
	"github.com/jhoicas/painel-almoxarifado/internal/application/view"
	"github.com/jhoicas/painel-almoxarifado/internal/domain"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/hierarchy"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/inventory"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/series"
)

// receiptTimeLayout formato de data_recebimento (datetime-local).
const receiptTimeLayout = "2006-01-02T15:04"

// Options configuración del servicio.
type Options struct {
	Timeout  time.Duration
	Location *time.Location
	Now      func() time.Time
	Logger   zerolog.Logger
}

// Service casos de uso de cadastro y recebimento.
type Service struct {
	api     ports.WarehouseAPI
	timeout time.Duration
	loc     *time.Location
	now     func() time.Time
	log     zerolog.Logger
}

// NewService construye el servicio.
func NewService(api ports.WarehouseAPI, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{api: api, timeout: opts.Timeout, loc: opts.Location, now: opts.Now, log: opts.Logger}
}

// ── Cadastro ──────────────────────────────────────────────────────────────────

// CreateInput formulario "Cadastro de Produto".
type CreateInput struct {
	CentralID   string `json:"central_id"`
	Codigo      string `json:"codigo"`
	Nome        string `json:"nome"`
	Descricao   string `json:"descricao"`
	Observacao  string `json:"observacao_extra"`
	CategoriaID string `json:"categoria_id"`
	Unidade     string `json:"unidade_medida"`
	Ativo       *bool  `json:"ativo"` // nil = true
}

func (in CreateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.CentralID, validation.Required.Error("Selecione uma Central")),
		validation.Field(&in.Codigo, validation.Required.Error("Informe o código")),
		validation.Field(&in.Nome, validation.Required.Error("Informe o nome")),
	)
}

// Centrals centrais ativas para el select del cadastro.
func (s *Service) Centrals(ctx context.Context) ([]entity.Location, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	locs, err := s.api.ListLocationsByLevel(ctx, hierarchy.Central)
	if err != nil {
		return nil, fmt.Errorf("produto: centrais: %w", err)
	}
	return locs, nil
}

// Categories categorias del catálogo.
func (s *Service) Categories(ctx context.Context) ([]entity.Category, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	cats, err := s.api.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("produto: categorias: %w", err)
	}
	return cats, nil
}

// GenerateCode pide al backend el próximo código para (central, categoria).
func (s *Service) GenerateCode(ctx context.Context, centralID, categoryID string) (string, error) {
	centralID, categoryID = strings.TrimSpace(centralID), strings.TrimSpace(categoryID)
	if centralID == "" || categoryID == "" {
		return "", domain.NewValidationError("Selecione a central e a categoria")
	}
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	code, err := s.api.GenerateProductCode(ctx, dto.GenerateCodeRequest{CentralID: centralID, CategoriaID: categoryID})
	if err != nil {
		return "", fmt.Errorf("produto: gerar código: %w", err)
	}
	return code, nil
}

// CheckCodeUnique busca el código y lo da por tomado si algún producto tiene exactamente
// ese código (sin distinguir mayúsculas). Un código vacío se considera libre.
func (s *Service) CheckCodeUnique(ctx context.Context, code string) (bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return true, nil
	}
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	products, err := s.api.ListProducts(ctx, dto.ProductQuery{Search: code})
	if err != nil {
		return false, fmt.Errorf("produto: verificar código: %w", err)
	}
	for _, p := range products {
		if strings.EqualFold(p.Code, code) {
			return false, nil
		}
	}
	return true, nil
}

// Create valida, rechaza códigos ya usados y crea el producto. Devuelve el id creado.
func (s *Service) Create(ctx context.Context, in CreateInput) (string, error) {
	in.CentralID = hierarchy.NormalizeIdentifier(in.CentralID)
	in.Codigo = strings.TrimSpace(in.Codigo)
	in.Nome = strings.TrimSpace(in.Nome)
	if err := view.FirstError(in.Validate(), "central_id", "codigo", "nome"); err != nil {
		return "", err
	}
	unique, err := s.CheckCodeUnique(ctx, in.Codigo)
	if err != nil {
		s.log.Warn().Err(err).Str("codigo", in.Codigo).Msg("verificação de código indisponível")
	} else if !unique {
		return "", domain.NewValidationError("Código já cadastrado")
	}

	active := true
	if in.Ativo != nil {
		active = *in.Ativo
	}
	var extra *string
	if v := strings.TrimSpace(in.Observacao); v != "" {
		extra = &v
	}
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	id, err := s.api.CreateProduct(ctx, entity.NewProduct{
		CentralID:   in.CentralID,
		Code:        in.Codigo,
		Name:        in.Nome,
		Description: strings.TrimSpace(in.Descricao),
		ExtraNote:   extra,
		CategoryID:  hierarchy.NormalizeIdentifier(in.CategoriaID),
		Unit:        in.Unidade,
		Active:      active,
	})
	if err != nil {
		return "", fmt.Errorf("produto: criar: %w", err)
	}
	s.log.Info().Str("produto", id).Str("codigo", in.Codigo).Msg("produto cadastrado")
	return id, nil
}

// ── Recebimento ───────────────────────────────────────────────────────────────

// ReceiptInput formulario de recebimento; los opcionales vacíos viajan como null.
type ReceiptInput struct {
	ProdutoID       string `json:"produto_id"`
	AlmoxarifadoID  string `json:"almoxarifado_id"`
	Quantidade      string `json:"quantidade"`
	PrecoUnitario   string `json:"preco_unitario"`
	Lote            string `json:"lote"`
	Fornecedor      string `json:"fornecedor"`
	DataFabricacao  string `json:"data_fabricacao"`
	DataVencimento  string `json:"data_vencimento"`
	NotaFiscal      string `json:"nota_fiscal"`
	Observacoes     string `json:"observacoes"`
	DataRecebimento string `json:"data_recebimento"` // vacío = ahora
}

// ReceiptSummary resumen mostrado tras registrar el recebimento.
type ReceiptSummary struct {
	ProductID   string          `json:"produto_id"`
	Quantity    decimal.Decimal `json:"quantidade"`
	UnitPrice   string          `json:"preco_unitario"`
	Total       string          `json:"valor_total"`
	Lot         string          `json:"lote"`
	Supplier    string          `json:"fornecedor"`
	Invoice     string          `json:"nota_fiscal"`
	ReceivedAt  string          `json:"data_recebimento"`
	ExpiryHint  string          `json:"alerta_vencimento,omitempty"`
	Warehouse   any             `json:"almoxarifado_id"`
	Observation string          `json:"observacoes"`
}

type receiptForm struct {
	ProductID   string          `json:"produto"`
	Quantity    decimal.Decimal `json:"quantidade"`
	WarehouseID string          `json:"almoxarifado"`
}

func (f receiptForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.ProductID, validation.Required.Error("Selecione um produto primeiro")),
		validation.Field(&f.Quantity, view.Positive("Quantidade deve ser maior que zero")),
		validation.Field(&f.WarehouseID, validation.Required.Error("Selecione um almoxarifado")),
	)
}

// Warehouses almoxarifados donde el producto puede recibirse.
func (s *Service) Warehouses(ctx context.Context, productID string) ([]entity.Location, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	locs, err := s.api.ProductWarehouses(ctx, hierarchy.NormalizeIdentifier(productID))
	if err != nil {
		return nil, fmt.Errorf("produto: almoxarifados: %w", err)
	}
	return locs, nil
}

// ExpiryHint aviso para la fecha de vencimiento tecleada; "" si no se entiende.
func (s *Service) ExpiryHint(raw string) string {
	t, ok := series.ParseDate(raw, s.loc)
	if !ok {
		return ""
	}
	return inventory.ReceiptExpiryHint(t, s.now().In(s.loc))
}

// Receive valida (produto, quantidade > 0, almoxarifado) y registra el recebimento.
func (s *Service) Receive(ctx context.Context, in ReceiptInput) (*ReceiptSummary, error) {
	qty, _ := inventory.ParseQuantity(in.Quantidade)
	form := receiptForm{
		ProductID:   hierarchy.NormalizeIdentifier(in.ProdutoID),
		Quantity:    qty,
		WarehouseID: hierarchy.NormalizeIdentifier(in.AlmoxarifadoID),
	}
	if err := view.FirstError(form.Validate(), "produto", "quantidade", "almoxarifado"); err != nil {
		return nil, err
	}

	req := dto.ReceiptRequest{
		ProdutoID:       form.ProductID,
		Quantidade:      qty,
		Lote:            optional(in.Lote),
		Fornecedor:      optional(in.Fornecedor),
		DataFabricacao:  optional(in.DataFabricacao),
		DataVencimento:  optional(in.DataVencimento),
		NotaFiscal:      optional(in.NotaFiscal),
		Observacoes:     optional(in.Observacoes),
		DataRecebimento: strings.TrimSpace(in.DataRecebimento),
		AlmoxarifadoID:  WarehouseRef(form.WarehouseID),
	}
	if price, ok := inventory.ParseQuantity(in.PrecoUnitario); ok {
		req.PrecoUnitario = &price
	}
	if req.DataRecebimento == "" {
		req.DataRecebimento = s.now().In(s.loc).Format(receiptTimeLayout)
	}

	ctx, cancel := s.bounded(ctx)
	defer cancel()
	if err := s.api.ReceiveProduct(ctx, form.ProductID, req); err != nil {
		return nil, fmt.Errorf("produto: recebimento: %w", err)
	}
	s.log.Info().Str("produto", form.ProductID).Str("quantidade", qty.String()).Msg("recebimento registrado")
	return s.summary(req), nil
}

func (s *Service) summary(req dto.ReceiptRequest) *ReceiptSummary {
	out := &ReceiptSummary{
		ProductID:   req.ProdutoID,
		Quantity:    req.Quantidade,
		UnitPrice:   "-",
		Total:       "0.00",
		Lot:         deref(req.Lote),
		Supplier:    deref(req.Fornecedor),
		Invoice:     deref(req.NotaFiscal),
		ReceivedAt:  "-",
		Warehouse:   req.AlmoxarifadoID,
		Observation: deref(req.Observacoes),
	}
	if req.PrecoUnitario != nil {
		out.UnitPrice = req.PrecoUnitario.StringFixed(2)
		out.Total = req.Quantidade.Mul(*req.PrecoUnitario).StringFixed(2)
	}
	if t, ok := series.ParseDate(req.DataRecebimento, s.loc); ok {
		out.ReceivedAt = series.FormatBR(t)
	}
	if req.DataVencimento != nil {
		out.ExpiryHint = s.ExpiryHint(*req.DataVencimento)
	}
	return out
}

// WarehouseRef id del almoxarifado como número cuando es numérico, si no como texto.
func WarehouseRef(id string) any {
	if id == "" || strings.TrimLeft(id, "0123456789") != "" {
		return id
	}
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

func (s *Service) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func deref(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}
