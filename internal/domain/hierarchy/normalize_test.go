package hierarchy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/painel-almoxarifado/internal/domain/hierarchy"
)

func TestNormalizeLevel_VocabularioFijo(t *testing.T) {
	casos := map[string]hierarchy.Level{
		"Almoxarifado":      hierarchy.Almoxarifado,
		"almoxarifado":      hierarchy.Almoxarifado,
		"Sub-Almoxarifado":  hierarchy.SubAlmoxarifado,
		"sub almox central": hierarchy.SubAlmoxarifado,
		"subalmoxarifado":   hierarchy.SubAlmoxarifado,
		"sub_almoxarifado":  hierarchy.SubAlmoxarifado,
		"CENTRAL":           hierarchy.Central,
		"centrais":          hierarchy.Central,
		"Setor":             hierarchy.Setor,
		"setores":           hierarchy.Setor,
		"":                  "",
	}
	for in, want := range casos {
		assert.Equal(t, want, hierarchy.NormalizeLevel(in), "entrada %q", in)
	}
}

func TestNormalizeLevel_DesconocidoPasaEnMinusculas(t *testing.T) {
	assert.Equal(t, hierarchy.Level("deposito"), hierarchy.NormalizeLevel("Deposito"))
	assert.Equal(t, hierarchy.Level(" central"), hierarchy.NormalizeLevel(" Central"),
		"sin recorte: el valor vuelve tal cual, solo en minúsculas")
	assert.False(t, hierarchy.NormalizeLevel("Deposito").Known())
	assert.True(t, hierarchy.NormalizeLevel("Setor").Known())
}

func TestNormalizeLevel_Idempotente(t *testing.T) {
	entradas := []string{"", "Almox", "SUB almox", "central", "Setor X", "xyz", "  ", "Sub", "cen", "almoxarifado setorial"}
	for _, in := range entradas {
		once := hierarchy.NormalizeLevel(in)
		assert.Equal(t, once, hierarchy.NormalizeLevel(string(once)), "entrada %q", in)
	}
}

func TestNormalizeIdentifier(t *testing.T) {
	hex := "64b7f0c2a1b2c3d4e5f60718"
	casos := map[string]string{
		`ObjectId("` + hex + `")`:   hex,
		`ObjectId('` + hex + `')`:   hex,
		`ObjectId(` + hex + `)`:     hex,
		`  "abc"  `:                 "abc",
		`'42'`:                      "42",
		`"'nested'"`:                "nested",
		"  17 ":                     "17",
		`"sem fim`:                  `"sem fim`,
		"":                          "",
		`ObjectId("curto")`:         `ObjectId("curto")`,
	}
	for in, want := range casos {
		assert.Equal(t, want, hierarchy.NormalizeIdentifier(in), "entrada %q", in)
	}
}

func TestNormalizeIdentifier_Idempotente(t *testing.T) {
	entradas := []string{`"'x'"`, `'"y"'`, `ObjectId("64b7f0c2a1b2c3d4e5f60718")`, `" z "`, `"`, `''`, "plain"}
	for _, in := range entradas {
		once := hierarchy.NormalizeIdentifier(in)
		assert.Equal(t, once, hierarchy.NormalizeIdentifier(once), "entrada %q", in)
	}
}

func TestNormalizeMovementType_QuitaAcentos(t *testing.T) {
	assert.Equal(t, "distribuicao", hierarchy.NormalizeMovementType("Distribuição"))
	assert.Equal(t, "saida", hierarchy.NormalizeMovementType("SAÍDA"))
	assert.Equal(t, "transferencia", hierarchy.NormalizeMovementType(" Transferência "))
	assert.True(t, hierarchy.IsOutbound(hierarchy.NormalizeMovementType("Saída")))
	assert.False(t, hierarchy.IsOutbound("entrada"))
	assert.False(t, hierarchy.IsOutbound("distribuicao"))
}

func TestLevelLabel(t *testing.T) {
	assert.Equal(t, "Sub almoxarifado", hierarchy.SubAlmoxarifado.Label())
	assert.Equal(t, "Setor", hierarchy.Setor.Label())
}
