package dto

import "github.com/shopspring/decimal"

// DishAvailabilityRequest body para POST /api/dishes/availability y /cost.
// El catálogo de platos vive fuera de este servicio; envía los nombres de
// los insumos vinculados al plato.
type DishAvailabilityRequest struct {
	DishName    string   `json:"dish_name,omitempty"`
	Ingredients []string `json:"ingredients"`
}

// DishAvailabilityResponse resultado de la verificación de disponibilidad.
// Blocked lista los insumos sin stock o inexistentes que impiden publicar.
type DishAvailabilityResponse struct {
	Allowed bool     `json:"allowed"`
	Blocked []string `json:"blocked,omitempty"`
}

// DishCostResponse costo estimado del plato (cifra indicativa, no contable).
// Missing lista insumos no resueltos y excluidos de la suma.
type DishCostResponse struct {
	Cost    decimal.Decimal `json:"cost"`
	Missing []string        `json:"missing,omitempty"`
}
