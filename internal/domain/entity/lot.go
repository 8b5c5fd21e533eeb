package entity

import "time"

// Lot lote de un producto con fechas de fabricación y vencimiento.
type Lot struct {
	ProductID       string
	ProductName     string
	LotNumber       string
	ManufactureDate *time.Time
	ExpiryDate      *time.Time
}
