package domain

// TokenRecord represents a freshly created pump.fun token.
// Built once by the listener and treated as immutable downstream.
type TokenRecord struct {
	Mint                   string // token mint address
	Creator                string // wallet that signed the create
	User                   string // user account from the create event
	Signature              string // creation transaction signature
	Name                   string // token name
	Symbol                 string // ticker symbol
	MetadataURI            string // off-chain metadata URI
	BondingCurve           string // bonding curve account
	AssociatedBondingCurve string // ATA holding curve-side tokens
	CreatorVault           string // creator fee vault PDA
	DetectedAt             int64  // detection timestamp (ms)
}

// MarketSnapshot carries optional on-chain and market annotations for a
// token. Nil pointers mean the value was never fetched; the security gate
// distinguishes missing from present-and-zero.
type MarketSnapshot struct {
	MintAuthority   *string
	FreezeAuthority *string
	PriceUSD        *float64
	LiquidityUSD    *float64
	Volume5mUSD     *float64
}
