package entity

// PriceObservation is one recorded price point. Price is the displayed
// whole-number digit sequence of the product price (decimal separators
// stripped), so a page showing "19,99" is recorded as 1999.
// The timestamp is kept as a string so that history files written by
// earlier versions of the tool stay readable.
type PriceObservation struct {
	Price     int64  `json:"price"`
	Timestamp string `json:"timestamp"`
}
