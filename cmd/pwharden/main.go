// Command pwharden reads a password from standard input and prints the
// hex-encoded key derived from it.
//
//	echo -n 'correct horse' | pwharden
//	pwharden -config pwharden.yaml < password.txt
package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/coinbase/pwharden-go/pkg/pwharden"
	"github.com/coinbase/pwharden-go/pkg/pwharden/logging"
	"github.com/coinbase/pwharden-go/pkg/pwharden/oprf"
)

// maxPasswordBytes bounds what is read from stdin.
const maxPasswordBytes = 1 << 20

type options struct {
	configPath   string
	keyPolicy    string
	evaluatorKey string
	salt         string
	timeout      time.Duration
	debug        bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "optional YAML configuration file")
	flag.StringVar(&opts.keyPolicy, "key-policy", "", "evaluator key policy: per-call or fixed (overrides config)")
	flag.StringVar(&opts.evaluatorKey, "evaluator-key", "", "hex evaluator key for the fixed policy (overrides config)")
	flag.StringVar(&opts.salt, "salt", "", "hex Argon2i salt (overrides config)")
	flag.DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall deadline")
	flag.BoolVar(&opts.debug, "debug", false, "log pipeline stages to stderr")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("pwharden", pwharden.LibraryVersion())
		return
	}

	if err := run(opts, os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

// run hardens the password read from stdin and writes the hex key to stdout.
// Secrets it owns are zeroized on every return path.
func run(opts options, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(opts.configPath, opts.keyPolicy, opts.evaluatorKey, opts.salt)
	defer pwharden.ZeroizeBytes(cfg.EvaluatorKey)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}
	logger := logging.New(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	h, err := pwharden.New(cfg, pwharden.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("new hardener: %w", err)
	}
	defer h.Close()

	password, err := readPassword(stdin)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	defer pwharden.ZeroizeBytes(password)

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	key, err := h.Harden(ctx, password)
	if err != nil {
		return fmt.Errorf("harden: %w", err)
	}
	defer pwharden.ZeroizeBytes(key)

	if h.KeyPolicy() == oprf.KeyPerCall {
		logger.Warn(ctx, "per-call evaluator key: output will differ on every run")
	}
	_, err = fmt.Fprintln(stdout, hex.EncodeToString(key))
	return err
}

func loadConfig(path, policy, key, salt string) (pwharden.Config, error) {
	cfg := pwharden.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = pwharden.LoadConfigFile(path); err != nil {
			return pwharden.Config{}, err
		}
	}

	if policy != "" {
		p, err := oprf.ParseKeyPolicy(policy)
		if err != nil {
			return pwharden.Config{}, err
		}
		cfg.KeyPolicy = p
		if p == oprf.KeyPerCall {
			cfg.EvaluatorKey = nil
		}
	}
	if key != "" {
		b, err := hex.DecodeString(key)
		if err != nil {
			return pwharden.Config{}, fmt.Errorf("evaluator key: %w", err)
		}
		cfg.EvaluatorKey = b
	}
	if salt != "" {
		b, err := hex.DecodeString(salt)
		if err != nil {
			return pwharden.Config{}, fmt.Errorf("salt: %w", err)
		}
		cfg.Salt = b
	}
	return cfg, cfg.Validate()
}

// readPassword returns the first line of r without its line terminator.
func readPassword(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(io.LimitReader(r, maxPasswordBytes+1))
	line, err := br.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if len(line) > maxPasswordBytes {
		pwharden.ZeroizeBytes(line)
		return nil, fmt.Errorf("password exceeds %d bytes", maxPasswordBytes)
	}
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		n--
	}
	if n > 0 && line[n-1] == '\r' {
		n--
	}
	return line[:n], nil
}
