package globals

const (
	DefaultNodeURL       = "http://127.0.0.1:8545"
	InfuraNodeURL        = "https://mainnet.infura.io/v3/%s"
	InfuraSepoliaNodeURL = "https://sepolia.infura.io/v3/%s"
	DefaultWebPort       = 8088
	DefaultGasLimit      = uint64(300000)
	DefaultWaitTimeout   = "60s"
	DefaultFeeUnit       = "wei"
	DefaultHistoryLimit  = 20
	DefaultRateLimit     = 60
)
