package config

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	str2duration "github.com/xhit/go-str2duration/v2"

	"github.com/vasapolrittideah/hope-sync-api/shared/security"
)

// ServiceConfig holds the configuration of the hope-sync API, loaded once at
// process start.
type ServiceConfig struct {
	AppEnv      string `env:"APP_ENV"      envDefault:"production"`
	Port        string `env:"PORT"         envDefault:"5000"`
	RequireAuth bool   `env:"REQUIRE_AUTH" envDefault:"false"`

	HTTP     HTTPConfig
	Mongo    MongoConfig
	Token    TokenConfig
	Password PasswordConfig
}

type HTTPConfig struct {
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT"  envDefault:"15s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT"  envDefault:"60s"`
}

type MongoConfig struct {
	URI      string `env:"MONGODB_URI,required"`
	Database string `env:"MONGODB_DATABASE"     envDefault:"hope-sync"`
}

type TokenConfig struct {
	Secret    string   `env:"JWT_SECRET,required"`
	ExpiresIn Duration `env:"EXPIRES_IN"          envDefault:"1h"`
	Issuer    string   `env:"JWT_ISSUER"          envDefault:"hope-sync"`
}

type PasswordConfig struct {
	Algorithm  security.Algorithm `env:"PASSWORD_HASHER" envDefault:"bcrypt"`
	BcryptCost int                `env:"BCRYPT_COST"     envDefault:"10"`
}

// Load parses the environment into a ServiceConfig and validates it.
func Load() (*ServiceConfig, error) {
	cfg, err := env.ParseAs[ServiceConfig]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *ServiceConfig) validate() error {
	if time.Duration(c.Token.ExpiresIn) <= 0 {
		return errors.New("EXPIRES_IN must be positive")
	}
	if strings.TrimSpace(c.Token.Secret) == "" {
		return errors.New("JWT_SECRET must not be blank")
	}

	switch c.Password.Algorithm {
	case security.AlgorithmBcrypt, security.AlgorithmArgon2id:
	default:
		return fmt.Errorf("PASSWORD_HASHER must be %q or %q", security.AlgorithmBcrypt, security.AlgorithmArgon2id)
	}

	return nil
}

// Duration is a token lifetime. It accepts the vercel/ms forms tokens were
// configured with: a bare number of milliseconds ("60000"), a number with a
// short or long unit ("7d", "1w", "2 days", "2.5 hrs", "1y"), and compound Go
// style strings ("1h30m", "1w2d").
type Duration time.Duration

const year = time.Duration(365.25 * float64(24*time.Hour))

var msPattern = regexp.MustCompile(
	`(?i)^(-?(?:\d+)?\.?\d+) *(milliseconds?|msecs?|ms|seconds?|secs?|s|minutes?|mins?|m|hours?|hrs?|h|days?|d|weeks?|w|years?|yrs?|y)?$`,
)

func (d *Duration) UnmarshalText(text []byte) error {
	value := strings.TrimSpace(string(text))
	if value == "" {
		return errors.New("empty duration")
	}

	parsed, err := parseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value, err)
	}
	*d = Duration(parsed)

	return nil
}

func parseDuration(value string) (time.Duration, error) {
	match := msPattern.FindStringSubmatch(value)
	if match == nil {
		return str2duration.ParseDuration(value)
	}

	number, unit := match[1], strings.ToLower(match[2])
	switch {
	case unit == "":
		unit = "ms"
	case strings.HasPrefix(unit, "y"):
		n, err := strconv.ParseFloat(number, 64)
		if err != nil {
			return 0, err
		}
		return time.Duration(n * float64(year)), nil
	case strings.HasPrefix(unit, "ms"), strings.HasPrefix(unit, "milli"):
		unit = "ms"
	default:
		unit = unit[:1]
	}

	return str2duration.ParseDuration(number + unit)
}
