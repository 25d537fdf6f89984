package constants

import "time"

// Ledger defaults
const (
	DefaultRPCURL = "https://api.mainnet-beta.solana.com"
	// Token-swap program whose pools are reported
	DefaultSwapProgramID = "9qvG1zUp8xF1Bi4m6UdRNby1BAAuaDrUxSpv4CmRRMjL"
)

// Limits
const (
	MaxAccountsPerRequest   = 100 // getMultipleAccounts hard cap
	DefaultFetchTimeout     = 5 * time.Second
	DefaultDiscoveryTimeout = 60 * time.Second // getProgramAccounts returns every pool at once
	DefaultConcurrency      = 4
	DefaultRateLimit        = 8.0 // requests per second, public RPC friendly
)

// Report layout
var ReportHeader = []string{"Pool", "Token A", "Balance A", "Token B", "Balance B", "1 A ~ ? B"}

// UnresolvedMarker replaces values that could not be read from the ledger
const UnresolvedMarker = "unresolved"

// TokenSymbols maps well-known mint addresses to their symbols
var TokenSymbols = map[string]string{
	"So11111111111111111111111111111111111111112":  "SOL",
	"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v": "USDC",
	"Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB": "USDT",
	"mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So":  "mSOL",
	"7vfCXTUXx5WJV5JADk17DUJ4ksgau7utNKj4b963voxs": "ETH",
	"9n4nbM75f5Ui33ZbPYXn59EwSgE8CGsHtAeTH5YFeJ9E": "BTC",
	"3NZ9JMVBmGAqocybic2c7LQCJScmgsAZ6vQqTDzcqmJh": "WBTC",
	"DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263": "BONK",
	"7GCihgDB8fe6KNjn2MYtkzZcRjQy3t9GHdC8uHYmW2hr": "POPCAT",
	"JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN":  "JUP",
	"4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R": "RAY",
	"SRMuApVNdxXokk5GT7XD5cUUgXMBCoAz2LHeuAoKWRt":  "SRM",
	"MangoCzJ36AjZyKwVj3VnYU4GTonjfVEnJmvvWaxLac":  "MNGO",
	"8HGyAAB1yoM1ttS7pXjHMa3dukTFGQggnFFH3hJZgzQh": "COPE",
	"kinXdEcpDQeHPEuQnqmUgtYykqKGVFq6CeVX5iAHJq6":  "KIN",
	"AGFEad2et2ZJif9jaGpdMixQqvW5i81aBdvKe7PHNfz3": "FTT",
	"StepAscQoEioFxxWGnh2sLBDFp9d8rvKz2Yp39iDpyT":  "STEP",
	"SLNDpmoWTVADgEdndyvWzroNL7zSi1dF9PC3xHGtPwp":  "SLND",
}
