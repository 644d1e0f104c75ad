package models

// CryptoAddress maps a currency name to its deposit address. The set of
// currencies is fixed at seed time; the admin may only overwrite addresses.
type CryptoAddress struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"size:32;uniqueIndex"`
	Address string `gorm:"size:128"`
}

// DefaultCryptoAddresses seeds the registry on first start.
func DefaultCryptoAddresses() map[string]string {
	return map[string]string{
		"Bitcoin":      "bc1qvy8t9tn96c55vq0mk2tzgkcaews23a0jldqlzr",
		"Ethereum":     "0x251601f4c7f9708a5a2E1A1A0ead87886D28FD6A",
		"USDT(ERC20)":  "0x251601f4c7f9708a5a2E1A1A0ead87886D28FD6A",
		"XRP":          "rUfe1havVukiCcvvUupD5kCBkgMABjP1xk",
		"XLM":          "GANOQPCXRJO6DOGT6BFPKMKG2EFP33EATNRSJUH3ZWDCZVISSXAMIF4F",
		"BNB":          "0x251601f4c7f9708a5a2E1A1A0ead87886D28FD6A",
		"Solana":       "FivNN2VAtrsaNAoj6gYbKmZnebYy54R3uQmTM7mh72xF",
	}
}

// WithdrawNetworks labels the network shown next to each withdrawable
// currency when the user picks one and enters a destination address.
var WithdrawNetworks = map[string]string{
	"BTC":   "Bitcoin Mainnet",
	"ETH":   "Ethereum (ERC-20)",
	"USDT":  "Tether (ERC-20)",
	"USDC":  "USD Coin (ERC-20)",
	"BNB":   "Binance Smart Chain (BEP-20)",
	"SOL":   "Solana",
	"ADA":   "Cardano",
	"XRP":   "XRP Ledger",
	"DOGE":  "Dogecoin",
	"DOT":   "Polkadot",
	"TRX":   "Tron (TRC-20)",
	"LTC":   "Litecoin",
	"BCH":   "Bitcoin Cash",
	"LINK":  "Chainlink (ERC-20)",
	"MATIC": "Polygon (ERC-20)",
}

// WithdrawCurrencies is the ordered list shown in the withdrawal menu.
var WithdrawCurrencies = []string{
	"BTC", "ETH", "USDT", "USDC", "BNB", "SOL", "ADA", "XRP",
	"DOGE", "DOT", "TRX", "LTC", "BCH", "LINK", "MATIC",
}
