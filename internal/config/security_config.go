package config

const (
	bcryptCostEnvVar = "BCRYPT_COST"
	minBcryptCost    = 4
	maxBcryptCost    = 14
)

type SecurityConfig interface {
	GetBcryptCost() int
	GetMinPasswordLength() int
	GetEnableRateLimiting() bool
	GetRateLimit() (perSecond float64, burst float64)
}

type Security struct {
	BcryptCost int  `env:"BCRYPT_COST" envDefault:"10"`
	RateLimit  bool `env:"RATE_LIMIT" envDefault:"false"`
}

var _ SecurityConfig = Security{}

func (s Security) GetBcryptCost() int {
	return s.BcryptCost
}

func (Security) GetMinPasswordLength() int {
	return 6
}

func (s Security) GetEnableRateLimiting() bool {
	return s.RateLimit
}

// GetRateLimit allows a burst of 10 auth attempts per client, refilling one
// every 6 seconds.
func (Security) GetRateLimit() (float64, float64) {
	return 1.0 / 6.0, 10
}
