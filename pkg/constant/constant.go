package constant

const (
	// Registration defaults for a new account.
	DefaultCoins      = 0
	DefaultMaxDevices = 2

	// Coin awards mirror the activity values the mobile app grants.
	CoinsPerVideoShort = 6
	CoinsPerTestPassed = 10
)
