// internal/domain/position/position.go
package position

// Position is an open trading position.
type Position struct {
	Symbol       string  `json:"symbol"`
	EntryPrice   float64 `json:"entry_price"`
	CurrentPrice float64 `json:"current_price"`
	Quantity     float64 `json:"quantity"`
}

// Gain is the absolute gain of the position.
func (p Position) Gain() float64 {
	return (p.CurrentPrice - p.EntryPrice) * p.Quantity
}

// GainPercent is the gain relative to the entry price, 0 when the entry price is 0.
func (p Position) GainPercent() float64 {
	if p.EntryPrice == 0 {
		return 0
	}
	return (p.CurrentPrice - p.EntryPrice) / p.EntryPrice * 100
}
