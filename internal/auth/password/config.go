package password

import "fmt"

// Algorithm names a supported hashing algorithm.
type Algorithm string

const (
	AlgorithmBcrypt   Algorithm = "bcrypt"
	AlgorithmArgon2id Algorithm = "argon2id"
)

// Config selects and tunes the hashing algorithm. Zero values mean
// defaults; there is no minimum password length.
type Config struct {
	Algorithm     Algorithm `yaml:"algorithm" mapstructure:"algorithm"`
	BcryptCost    int       `yaml:"bcrypt_cost" mapstructure:"bcrypt_cost"`
	Argon2Time    uint32    `yaml:"argon2_time" mapstructure:"argon2_time"`
	Argon2Memory  uint32    `yaml:"argon2_memory" mapstructure:"argon2_memory"`
	Argon2Threads uint8     `yaml:"argon2_threads" mapstructure:"argon2_threads"`
}

// ApplyDefaults fills unset fields: bcrypt at cost 10, argon2id at the
// hasher's own defaults.
func (c *Config) ApplyDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = AlgorithmBcrypt
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = 10
	}
	if c.Argon2Time == 0 {
		c.Argon2Time = 1
	}
	if c.Argon2Memory == 0 {
		c.Argon2Memory = 64 * 1024
	}
	if c.Argon2Threads == 0 {
		c.Argon2Threads = 4
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Algorithm {
	case AlgorithmBcrypt, AlgorithmArgon2id:
	default:
		return fmt.Errorf("auth.password.algorithm must be bcrypt or argon2id (got: %s)", c.Algorithm)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("auth.password.bcrypt_cost must be between 4 and 31 (got: %d)", c.BcryptCost)
	}
	return nil
}

// NewHasher builds the configured Hasher.
func NewHasher(cfg Config) Hasher {
	cfg.ApplyDefaults()
	if cfg.Algorithm == AlgorithmArgon2id {
		return NewArgon2Hasher(
			WithArgon2Time(cfg.Argon2Time),
			WithArgon2Memory(cfg.Argon2Memory),
			WithArgon2Threads(cfg.Argon2Threads),
		)
	}
	return NewBcryptHasher(WithCost(cfg.BcryptCost))
}
