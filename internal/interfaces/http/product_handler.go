package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/painel-almoxarifado/internal/application/product"
)

// ProductHandler cadastro de produtos y recebimento con lote.
type ProductHandler struct {
	svc *product.Service
}

// NewProductHandler construye el handler.
func NewProductHandler(svc *product.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

type generateCodeRequest struct {
	CentralID   string `json:"central_id"`
	CategoriaID string `json:"categoria_id"`
}

// Centrals GET /api/painel/produtos/centrais
func (h *ProductHandler) Centrals(c *fiber.Ctx) error {
	out, err := h.svc.Centrals(requestContext(c))
	if err != nil {
		return writeError(c, err, "Erro ao carregar centrais")
	}
	return c.JSON(out)
}

// Categories GET /api/painel/produtos/categorias
func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	out, err := h.svc.Categories(requestContext(c))
	if err != nil {
		return writeError(c, err, "Erro ao carregar categorias")
	}
	return c.JSON(out)
}

// GenerateCode godoc
// @Summary      Sugerir código de producto
// @Tags         produtos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  generateCodeRequest  true  "Central y categoría"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/painel/produtos/codigo [post]
func (h *ProductHandler) GenerateCode(c *fiber.Ctx) error {
	var in generateCodeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	code, err := h.svc.GenerateCode(requestContext(c), in.CentralID, in.CategoriaID)
	if err != nil {
		return writeError(c, err, "Erro ao gerar código")
	}
	return c.JSON(fiber.Map{"codigo": code})
}

// CheckCode GET /api/painel/produtos/codigo/disponivel?codigo=X
func (h *ProductHandler) CheckCode(c *fiber.Ctx) error {
	ok, err := h.svc.CheckCodeUnique(requestContext(c), c.Query("codigo"))
	if err != nil {
		return writeError(c, err, "Erro ao verificar código")
	}
	return c.JSON(fiber.Map{"disponivel": ok})
}

// Create godoc
// @Summary      Cadastrar producto
// @Tags         produtos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  product.CreateInput  true  "Datos del producto"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/painel/produtos [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in product.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	id, err := h.svc.Create(requestContext(c), in)
	if err != nil {
		return writeError(c, err, "Erro ao cadastrar produto")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// Warehouses almoxarifados donde el producto puede recibirse.
func (h *ProductHandler) Warehouses(c *fiber.Ctx) error {
	out, err := h.svc.Warehouses(requestContext(c), c.Params("id"))
	if err != nil {
		return writeError(c, err, "Erro ao carregar almoxarifados")
	}
	return c.JSON(out)
}

// ExpiryHint GET /api/painel/recebimento/validade?data=YYYY-MM-DD
func (h *ProductHandler) ExpiryHint(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"aviso": h.svc.ExpiryHint(c.Query("data"))})
}

// Receive godoc
// @Summary      Registrar recebimento
// @Tags         produtos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del producto"
// @Param        body  body  product.ReceiptInput  true  "Cantidad, lote y fechas"
// @Success      201   {object}  product.ReceiptSummary
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/painel/produtos/{id}/recebimento [post]
func (h *ProductHandler) Receive(c *fiber.Ctx) error {
	var in product.ReceiptInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if id := c.Params("id"); id != "" {
		in.ProdutoID = id
	}
	out, err := h.svc.Receive(requestContext(c), in)
	if err != nil {
		return writeError(c, err, "Erro ao registrar recebimento")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
