package almoxapi

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/painel-almoxarifado/internal/domain/hierarchy"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/series"
)

// El backend mezcla ids numéricos, strings y ObjectId de Mongo; cantidades como
// número o string; fechas ISO, epoch o dd/mm/aaaa. Estos tipos aceptan todas las
// variantes sin fallar el decode completo.

var zero = decimal.Zero

// flexString acepta string, número, null y {"$oid": "..."}; guarda el id normalizado.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*f = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(hierarchy.NormalizeIdentifier(s))
	case b[0] == '{':
		var oid struct {
			OID string `json:"$oid"`
		}
		if err := json.Unmarshal(b, &oid); err != nil {
			return err
		}
		*f = flexString(hierarchy.NormalizeIdentifier(oid.OID))
	default:
		*f = flexString(string(b))
	}
	return nil
}

func (f flexString) String() string { return string(f) }

// flexIDs lista de ids con la misma tolerancia que flexString.
type flexIDs []flexString

func (f flexIDs) Strings() []string {
	out := make([]string, 0, len(f))
	for _, v := range f {
		if v != "" {
			out = append(out, string(v))
		}
	}
	return out
}

// flexDecimal acepta número, string ("1,5" incluido) o null.
type flexDecimal struct {
	decimal.NullDecimal
}

func (f *flexDecimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	f.Valid = false
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		// valor ilegible: se trata como ausente
		return nil
	}
	f.Decimal, f.Valid = d, true
	return nil
}

// Or devuelve el valor o def si vino null/ilegible.
func (f flexDecimal) Or(def decimal.Decimal) decimal.Decimal {
	if f.Valid {
		return f.Decimal
	}
	return def
}

// flexInt entero que puede llegar como número o string.
type flexInt struct {
	Value int
	Set   bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var d flexDecimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	if d.Valid {
		f.Value, f.Set = int(d.Decimal.IntPart()), true
	}
	return nil
}

// flexTime guarda el valor crudo; se interpreta en la zona del cliente.
type flexTime struct {
	raw any
}

func (f *flexTime) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(&f.raw)
}

func (f flexTime) In(loc *time.Location) *time.Time {
	t, ok := series.ParseDate(f.raw, loc)
	if !ok {
		return nil
	}
	return &t
}

// firstTime devuelve el primer flexTime con valor.
func firstTime(loc *time.Location, ts ...flexTime) *time.Time {
	for _, t := range ts {
		if v := t.In(loc); v != nil {
			return v
		}
	}
	return nil
}

// flexBool acepta bool, 0/1 y "true"/"false".
type flexBool struct {
	Value bool
	Set   bool
}

func (f *flexBool) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	f.Value, f.Set = v, true
	return nil
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstID(vals ...flexString) string {
	for _, v := range vals {
		if v != "" {
			return string(v)
		}
	}
	return ""
}
