package strategy

import "strings"

// AssetClass selects the advisory note appended to every reply.
type AssetClass string

const (
	AssetCommodity AssetClass = "commodity"
	AssetCrypto    AssetClass = "crypto"
	AssetStock     AssetClass = "stock"
	AssetGeneral   AssetClass = "general"
)

// ParseAsset normalizes free-form input. Anything unrecognized is general.
func ParseAsset(s string) AssetClass {
	switch AssetClass(strings.ToLower(strings.TrimSpace(s))) {
	case AssetCommodity:
		return AssetCommodity
	case AssetCrypto:
		return AssetCrypto
	case AssetStock:
		return AssetStock
	default:
		return AssetGeneral
	}
}

// Note returns the advisory sentence for the asset class, or "" for general.
func (a AssetClass) Note() string {
	switch a {
	case AssetCommodity:
		return "Commodities such as gold are often used as a hedge against inflation and tend to offer long-term stability."
	case AssetCrypto:
		return "Crypto assets are highly volatile, so only commit what fits your risk tolerance and be prepared for sharp swings."
	case AssetStock:
		return "Stock prices depend on company fundamentals and earnings as well as the broader market trend."
	default:
		return ""
	}
}
