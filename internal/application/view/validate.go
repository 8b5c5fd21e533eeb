package view

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/painel-almoxarifado/internal/domain"
)

// Positive regla ozzo para decimal.Decimal estrictamente positivo.
func Positive(msg string) validation.Rule {
	return validation.By(func(value interface{}) error {
		d, ok := value.(decimal.Decimal)
		if !ok || !d.IsPositive() {
			return errors.New(msg)
		}
		return nil
	})
}

// FirstError convierte el resultado de ValidateStruct en un ValidationError con el
// primer mensaje según order (nombres json de los campos).
func FirstError(err error, order ...string) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if errors.As(err, &errs) {
		for _, k := range order {
			if e := errs[k]; e != nil {
				return domain.NewValidationError(e.Error())
			}
		}
	}
	return domain.NewValidationError(err.Error())
}
