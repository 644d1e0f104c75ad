package models

// TradingBot is a static catalog entry; the catalog is read-only at runtime.
type TradingBot struct {
	Name        string
	Description string
	ProfitRate  string
}

var TradingBots = []TradingBot{
	{
		Name:        "NCW Trading Bot",
		Description: "Custom-built algorithm by Nova Capital Wealth for optimal profits.",
		ProfitRate:  "20%-35%",
	},
	{
		Name:        "TrendSeeker",
		Description: "Conservative strategy focusing on steady market trends.",
		ProfitRate:  "15%-25%",
	},
	{
		Name:        "GrowthMaster",
		Description: "Balanced approach for moderate risk and consistent growth.",
		ProfitRate:  "17%-21%",
	},
	{
		Name:        "ProfitPulse",
		Description: "Aggressive strategy targeting high returns in volatile markets.",
		ProfitRate:  "12%-16%",
	},
	{
		Name:        "StableCore",
		Description: "Diversified portfolio for long-term stability and growth.",
		ProfitRate:  "19%-23%",
	},
}

// FindTradingBot looks up a catalog entry by name.
func FindTradingBot(name string) (TradingBot, bool) {
	for _, b := range TradingBots {
		if b.Name == name {
			return b, true
		}
	}
	return TradingBot{}, false
}

// StakingCoins is the fixed asset catalog for the staking flow.
var StakingCoins = []string{
	"BTC", "ETH", "USDT", "BNB", "SOL", "XRP", "USDC",
	"ADA", "AVAX", "DOGE", "DOT", "TRX", "LINK",
}

// StakingDurations are the selectable lock periods, in days. Flexible
// stakes carry no lock and are handled separately.
var StakingDurations = []int{30, 60, 90}
