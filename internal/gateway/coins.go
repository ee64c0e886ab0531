package gateway

// SubunitsPerUnit is the provider's currency scale (paise per rupee).
const SubunitsPerUnit = 100

// CoinsForAmount converts a paid currency amount, in subunits, to coins:
// half a coin per currency unit, floored. Business-confirmed rate; change
// it here and nowhere else.
func CoinsForAmount(amountSubunits int64) int64 {
	return amountSubunits / SubunitsPerUnit / 2
}
