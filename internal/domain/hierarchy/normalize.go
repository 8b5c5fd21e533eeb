// Package hierarchy normaliza identificadores y los tipos de local de la jerarquía
// de estoque (central → almoxarifado → sub_almoxarifado → setor).
package hierarchy

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Level nivel de la jerarquía ya normalizado.
type Level string

// Los cuatro niveles reconocidos. Cualquier otro valor es "desconocido".
const (
	Central         Level = "central"
	Almoxarifado    Level = "almoxarifado"
	SubAlmoxarifado Level = "sub_almoxarifado"
	Setor           Level = "setor"
)

// Levels todos los niveles en orden jerárquico.
var Levels = []Level{Central, Almoxarifado, SubAlmoxarifado, Setor}

// Known indica si el nivel pertenece al conjunto cerrado.
func (l Level) Known() bool {
	switch l {
	case Central, Almoxarifado, SubAlmoxarifado, Setor:
		return true
	}
	return false
}

// Label etiqueta legible ("Sub almoxarifado").
func (l Level) Label() string {
	s := strings.Replace(string(l), "_", " ", 1)
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// objectIDRe envoltorio de referencia Mongo: ObjectId("<24 hex>") con comillas opcionales.
var objectIDRe = regexp.MustCompile(`ObjectId\(['"]?([0-9a-fA-F]{24})['"]?\)`)

// NormalizeIdentifier canoniza un identificador heterogéneo:
// ObjectId("…") → hex interno; "…" o '…' → sin comillas; si no, el texto recortado.
func NormalizeIdentifier(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if m := objectIDRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	// Se repite hasta que no queden comillas envolventes, así la función es idempotente.
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first != '"' && first != '\'') || first != last {
			break
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// NormalizeLevel lleva una etiqueta libre de tipo de local al vocabulario fijo.
// Valores no reconocidos vuelven en minúsculas, sin error.
func NormalizeLevel(raw string) Level {
	s := strings.ToLower(raw)
	switch {
	case s == "":
		return ""
	case strings.Contains(s, "almox"):
		if strings.HasPrefix(s, "sub") {
			return SubAlmoxarifado
		}
		return Almoxarifado
	case strings.HasPrefix(s, "cen"):
		return Central
	case strings.HasPrefix(s, "set"):
		return Setor
	}
	return Level(s)
}

// Tipos de movimentação tal como los expone el backend (ya sin acentos).
const (
	MovEntrada       = "entrada"
	MovSaida         = "saida"
	MovTransferencia = "transferencia"
	MovConsumo       = "consumo"
	MovRetirada      = "retirada"
	MovDistribuicao  = "distribuicao"
)

// NormalizeMovementType minúsculas y sin acentos: "Distribuição" → "distribuicao".
func NormalizeMovementType(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// IsOutbound tipos que cuentan como consumo (salida del local de origen).
func IsOutbound(movType string) bool {
	switch movType {
	case MovTransferencia, MovSaida, MovConsumo, MovRetirada:
		return true
	}
	return false
}
