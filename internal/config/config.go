// Package config handles the configuration of the fndsa command-line tool:
// command-line flags, with defaults taken from FNDSA_* environment
// variables.
package config

import (
	"crypto"
	"flag"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// EnvPrefix is the prefix of all environment variables read by the tool.
const EnvPrefix = "FNDSA_"

// Default values.
const (
	DefaultLogN      = 9
	DefaultKeyPath   = "fndsa.key"
	DefaultPubPath   = "fndsa.pub"
	DefaultInput     = "-"
	DefaultPreHash   = "none"
	DefaultCount     = 1000
	DefaultCacheSize = 16
	DefaultTimeout   = 5 * time.Minute
)

// Commands understood by the tool.
const (
	CmdKeyGen = "keygen"
	CmdSign   = "sign"
	CmdVerify = "verify"
	CmdBench  = "bench"
)

var commands = []string{CmdKeyGen, CmdSign, CmdVerify, CmdBench}

// Pre-hash functions, by name; "none" means that the message is signed
// as is.
var preHashes = map[string]crypto.Hash{
	"none":       0,
	"sha256":     crypto.SHA256,
	"sha384":     crypto.SHA384,
	"sha512":     crypto.SHA512,
	"sha512-256": crypto.SHA512_256,
	"sha3-256":   crypto.SHA3_256,
	"sha3-384":   crypto.SHA3_384,
	"sha3-512":   crypto.SHA3_512,
}

// AppConfig is the complete configuration of one run.
type AppConfig struct {
	Command   string
	LogN      uint
	KeyPath   string
	PubPath   string
	Input     string
	SigPath   string
	Context   string
	PreHash   string
	Workers   int
	Count     int
	CacheSize int
	Timeout   time.Duration
	Verbose   bool
	JSONLog   bool
}

// Hash returns the pre-hash function identifier (0 for none).
func (c AppConfig) Hash() crypto.Hash {
	return preHashes[c.PreHash]
}

// Weak tells whether the configured degree is one of the non-standard
// (insecure) degrees.
func (c AppConfig) Weak() bool {
	return c.LogN < 9
}

// Validate checks the consistency of the configuration.
func (c AppConfig) Validate() error {
	known := false
	for _, cmd := range commands {
		if c.Command == cmd {
			known = true
		}
	}
	if !known {
		return errors.Errorf("unknown command %q (expected one of %s)",
			c.Command, strings.Join(commands, ", "))
	}
	if c.LogN < 2 || c.LogN > 10 {
		return errors.Errorf("invalid degree: logn=%d (expected 2 to 10)", c.LogN)
	}
	if len(c.Context) > 255 {
		return errors.Errorf("context is too long (%d bytes, max 255)", len(c.Context))
	}
	if _, ok := preHashes[c.PreHash]; !ok {
		return errors.Errorf("unknown pre-hash function %q", c.PreHash)
	}
	if c.KeyPath == "" {
		return errors.New("signing key path is empty")
	}
	if c.Command == CmdVerify && c.SigPath == "" {
		return errors.New("verify requires a signature file (-sig)")
	}
	if c.Command == CmdVerify && c.PubPath == "" {
		return errors.New("verifying key path is empty")
	}
	if c.Workers < 1 {
		return errors.Errorf("invalid number of workers: %d", c.Workers)
	}
	if c.Count < 1 {
		return errors.Errorf("invalid signature count: %d", c.Count)
	}
	if c.CacheSize < 1 {
		return errors.Errorf("invalid cache size: %d", c.CacheSize)
	}
	if c.Timeout <= 0 {
		return errors.Errorf("invalid timeout: %v", c.Timeout)
	}
	return nil
}

// ParseConfig parses the command line. The first argument is the
// command; flags may follow. Environment variables provide the defaults,
// and explicit flags take precedence over them. Flag errors and usage
// are written to errorWriter.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	var cfg AppConfig
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cfg.Command = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	setCustomUsage(fs)

	logn := fs.Uint("logn", getEnvUint("LOGN", DefaultLogN), "degree (logarithmic): 9 or 10, or 2 to 8 for test keys")
	fs.StringVar(&cfg.KeyPath, "key", getEnvString("KEY", DefaultKeyPath), "signing key file")
	fs.StringVar(&cfg.PubPath, "pub", getEnvString("PUB", DefaultPubPath), "verifying key file")
	fs.StringVar(&cfg.Input, "in", getEnvString("IN", DefaultInput), "message file (- for stdin)")
	fs.StringVar(&cfg.SigPath, "sig", getEnvString("SIG", ""), "signature file (sign: hex on stdout if empty)")
	fs.StringVar(&cfg.Context, "context", getEnvString("CONTEXT", ""), "domain separation context")
	fs.StringVar(&cfg.PreHash, "prehash", getEnvString("PREHASH", DefaultPreHash), "pre-hash function (none, sha256, sha3-256, ...)")
	fs.IntVar(&cfg.Workers, "workers", getEnvInt("WORKERS", runtime.NumCPU()), "concurrent signers (bench)")
	fs.IntVar(&cfg.Count, "count", getEnvInt("COUNT", DefaultCount), "number of signatures (bench)")
	fs.IntVar(&cfg.CacheSize, "cache", getEnvInt("CACHE_SIZE", DefaultCacheSize), "number of expanded keys kept in memory")
	fs.DurationVar(&cfg.Timeout, "timeout", getEnvDuration("TIMEOUT", DefaultTimeout), "maximum run time")
	fs.BoolVar(&cfg.Verbose, "v", getEnvBool("VERBOSE", false), "enable debug logging")
	fs.BoolVar(&cfg.JSONLog, "json", getEnvBool("JSON", false), "log in JSON format")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.Command == "" && fs.NArg() > 0 {
		cfg.Command = fs.Arg(0)
	}
	cfg.LogN = *logn
	cfg.PreHash = strings.ToLower(cfg.PreHash)

	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func getEnvString(key, def string) string {
	if v, ok := os.LookupEnv(EnvPrefix + key); ok {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(EnvPrefix + key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvUint(key string, def uint) uint {
	if v, ok := os.LookupEnv(EnvPrefix + key); ok {
		if i, err := strconv.ParseUint(v, 10, 32); err == nil {
			return uint(i)
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(EnvPrefix + key); ok {
		switch strings.ToLower(v) {
		case "1", "true", "yes":
			return true
		case "0", "false", "no":
			return false
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(EnvPrefix + key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
