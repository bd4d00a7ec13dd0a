package witness

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/validated-streams/witness-guard/network/p2p/dht"
)

const (
	// All constant strings are used for CLI flag names and corresponding keys for config values.
	maxDeferredBlocks = "witness-max-deferred-blocks"
	deferralTTL       = "witness-deferral-ttl"
	rerequestInterval = "witness-rerequest-interval"
	proofCacheSize    = "witness-proof-cache-size"
	lookupWorkers     = "witness-lookup-workers"
	lookupTimeout     = "witness-lookup-timeout"
	putRetries        = "witness-put-retries"
	putBackoff        = "witness-put-backoff"
	dhtServerMode     = "witness-dht-server"
	bootstrapPeers    = "witness-bootstrap-peers"
	lookupRate        = "witness-lookup-rate"

	// envPrefix is prepended to upper-cased flag names for environment overrides,
	// e.g. WITNESS_GUARD_WITNESS_DEFERRAL_TTL.
	envPrefix = "WITNESS_GUARD"
)

// Config configures the import guard.
type Config struct {
	// MaxDeferredBlocks bounds the deferred block registry. The least recently
	// deferred block is evicted when the bound is reached.
	MaxDeferredBlocks uint `mapstructure:"witness-max-deferred-blocks"`
	// DeferralTTL is how long a block stays deferred without its proofs being found.
	DeferralTTL time.Duration `mapstructure:"witness-deferral-ttl"`
	// RerequestInterval is the minimum age of the last lookup for a deferred
	// block before a repeated deferral issues a new lookup.
	RerequestInterval time.Duration `mapstructure:"witness-rerequest-interval"`
	// ProofCacheSize is the number of events whose proofs are cached in memory.
	ProofCacheSize uint `mapstructure:"witness-proof-cache-size"`
	// LookupWorkers bounds concurrent DHT queries.
	LookupWorkers int `mapstructure:"witness-lookup-workers"`
	// LookupTimeout bounds a single DHT query.
	LookupTimeout time.Duration `mapstructure:"witness-lookup-timeout"`
	// PutRetries is the number of retries of a failed proof publication.
	PutRetries uint64 `mapstructure:"witness-put-retries"`
	// PutBackoff is the initial backoff between publication retries.
	PutBackoff time.Duration `mapstructure:"witness-put-backoff"`
	// DHTServerMode makes the node serve DHT records to other nodes.
	DHTServerMode bool `mapstructure:"witness-dht-server"`
	// BootstrapPeers are multiaddrs, each ending in /p2p/<peer id>, dialled
	// when the witness DHT starts.
	BootstrapPeers []string `mapstructure:"witness-bootstrap-peers"`
	// LookupRate limits DHT queries per second. Zero disables the limit.
	LookupRate float64 `mapstructure:"witness-lookup-rate"`
}

func DefaultConfig() Config {
	lookup := dht.DefaultLookupConfig()
	return Config{
		MaxDeferredBlocks: 1000,
		DeferralTTL:       10 * time.Minute,
		RerequestInterval: 30 * time.Second,
		ProofCacheSize:    1000,
		LookupWorkers:     lookup.Workers,
		LookupTimeout:     lookup.GetTimeout,
		PutRetries:        lookup.PutRetries,
		PutBackoff:        lookup.PutBackoff,
		DHTServerMode:     true,
		LookupRate:        lookup.QueryRate,
	}
}

type Opt func(*Config)

// WithMaxDeferredBlocks sets the capacity of the deferred block registry.
func WithMaxDeferredBlocks(limit uint) Opt {
	return func(cfg *Config) {
		cfg.MaxDeferredBlocks = limit
	}
}

// WithDeferralTTL sets how long a block may stay deferred.
func WithDeferralTTL(ttl time.Duration) Opt {
	return func(cfg *Config) {
		cfg.DeferralTTL = ttl
	}
}

// WithRerequestInterval sets the minimum interval between lookups for the same block.
func WithRerequestInterval(interval time.Duration) Opt {
	return func(cfg *Config) {
		cfg.RerequestInterval = interval
	}
}

func WithProofCacheSize(size uint) Opt {
	return func(cfg *Config) {
		cfg.ProofCacheSize = size
	}
}

// Validate checks that the configuration can be used to build a guard.
func (c Config) Validate() error {
	if c.MaxDeferredBlocks == 0 {
		return fmt.Errorf("%s must be positive", maxDeferredBlocks)
	}
	if c.DeferralTTL < 0 {
		return fmt.Errorf("%s must not be negative", deferralTTL)
	}
	if c.RerequestInterval < 0 {
		return fmt.Errorf("%s must not be negative", rerequestInterval)
	}
	if c.ProofCacheSize == 0 {
		return fmt.Errorf("%s must be positive", proofCacheSize)
	}
	if c.LookupWorkers < 1 {
		return fmt.Errorf("%s must be positive", lookupWorkers)
	}
	if c.LookupTimeout <= 0 {
		return fmt.Errorf("%s must be positive", lookupTimeout)
	}
	if c.LookupRate < 0 {
		return fmt.Errorf("%s must not be negative", lookupRate)
	}
	if _, err := dht.ParseBootstrapPeers(c.BootstrapPeers); err != nil {
		return fmt.Errorf("invalid %s: %w", bootstrapPeers, err)
	}
	return nil
}

// LookupConfig returns the DHT lookup adapter settings.
func (c Config) LookupConfig() dht.LookupConfig {
	lookup := dht.DefaultLookupConfig()
	lookup.Workers = c.LookupWorkers
	lookup.GetTimeout = c.LookupTimeout
	lookup.PutTimeout = c.LookupTimeout
	lookup.PutRetries = c.PutRetries
	lookup.PutBackoff = c.PutBackoff
	lookup.QueryRate = c.LookupRate
	return lookup
}

// AllFlagNames lists the flags registered by InitializeFlags.
func AllFlagNames() []string {
	return []string{
		maxDeferredBlocks, deferralTTL, rerequestInterval, proofCacheSize, lookupWorkers,
		lookupTimeout, putRetries, putBackoff, dhtServerMode, bootstrapPeers, lookupRate,
	}
}

// InitializeFlags registers the guard's CLI flags on the provided pflag set,
// using defaults as flag default values.
func InitializeFlags(flags *pflag.FlagSet, defaults Config) {
	flags.Uint(maxDeferredBlocks, defaults.MaxDeferredBlocks, "maximum number of blocks awaiting witness proofs")
	flags.Duration(deferralTTL, defaults.DeferralTTL, "time after which an unresolved deferred block is dropped")
	flags.Duration(rerequestInterval, defaults.RerequestInterval, "minimum interval between proof lookups for the same block")
	flags.Uint(proofCacheSize, defaults.ProofCacheSize, "number of events whose proofs are cached in memory")
	flags.Int(lookupWorkers, defaults.LookupWorkers, "number of concurrent DHT queries")
	flags.Duration(lookupTimeout, defaults.LookupTimeout, "timeout of a single DHT query")
	flags.Uint64(putRetries, defaults.PutRetries, "number of retries when publishing proofs to the DHT")
	flags.Duration(putBackoff, defaults.PutBackoff, "initial backoff between proof publication retries")
	flags.Bool(dhtServerMode, defaults.DHTServerMode, "serve DHT records to other nodes")
	flags.StringSlice(bootstrapPeers, defaults.BootstrapPeers, "multiaddrs of witness DHT bootstrap peers")
	flags.Float64(lookupRate, defaults.LookupRate, "maximum DHT queries per second, 0 for no limit")
}

// LoadConfig resolves the guard configuration from, in increasing priority,
// DefaultConfig, the optional YAML config file, environment variables and
// the flags explicitly set on flags.
func LoadConfig(flags *pflag.FlagSet, configFile string) (Config, error) {
	conf := viper.New()
	defaults := DefaultConfig()
	conf.SetDefault(maxDeferredBlocks, defaults.MaxDeferredBlocks)
	conf.SetDefault(deferralTTL, defaults.DeferralTTL)
	conf.SetDefault(rerequestInterval, defaults.RerequestInterval)
	conf.SetDefault(proofCacheSize, defaults.ProofCacheSize)
	conf.SetDefault(lookupWorkers, defaults.LookupWorkers)
	conf.SetDefault(lookupTimeout, defaults.LookupTimeout)
	conf.SetDefault(putRetries, defaults.PutRetries)
	conf.SetDefault(putBackoff, defaults.PutBackoff)
	conf.SetDefault(dhtServerMode, defaults.DHTServerMode)
	conf.SetDefault(lookupRate, defaults.LookupRate)

	conf.SetEnvPrefix(envPrefix)
	conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	conf.AutomaticEnv()

	if configFile != "" {
		conf.SetConfigFile(configFile)
		if err := conf.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("could not read config file %s: %w", configFile, err)
		}
	}

	if flags != nil {
		// only the guard's own flags, the set may belong to a larger node
		for _, name := range AllFlagNames() {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := conf.BindPFlag(name, flag); err != nil {
				return Config{}, fmt.Errorf("could not bind flag %s: %w", name, err)
			}
		}
	}

	var config Config
	if err := conf.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("could not decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}
