package models

// AssetClass determines a market's trading-day rules.
type AssetClass string

const (
	AssetClassEquity AssetClass = "EQUITY"
	AssetClassCrypto AssetClass = "CRYPTO"
)

// Market describes one tradable venue. The set of markets is a lookup table
// passed to the engine at construction, never a compiled-in registry.
type Market struct {
	Code  string     `json:"code"`
	Class AssetClass `json:"class"`
}

// DefaultMarkets returns the markets the application tracks out of the box.
func DefaultMarkets() []Market {
	return []Market{
		{Code: "BIST", Class: AssetClassEquity},
		{Code: "NASDAQ", Class: AssetClassEquity},
		{Code: "NYSE", Class: AssetClassEquity},
		{Code: "CRYPTO", Class: AssetClassCrypto},
	}
}
