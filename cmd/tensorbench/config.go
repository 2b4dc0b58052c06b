package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Mode selects what the tool does after start-up.
type Mode string

const (
	ModeDemo   Mode = "demo"
	ModeVerify Mode = "verify"
	ModeBench  Mode = "bench"
)

// Config is the validated form of the command-line flags.
type Config struct {
	Mode       Mode
	Sizes      []int
	Batch      int
	BlockSizes []int
	Iterations int
	Parallel   int
	Seed       uint64
	ListenAddr string
	EnableOTel bool
	CPUProfile string
	LogLevel   zerolog.Level
}

func configFromFlags() (Config, error) {
	sizes, err := parseInts(*flagSizes)
	if err != nil {
		return Config{}, fmt.Errorf("invalid -sizes: %w", err)
	}
	blocks, err := parseInts(*flagBlock)
	if err != nil {
		return Config{}, fmt.Errorf("invalid -block: %w", err)
	}
	level, err := zerolog.ParseLevel(*flagLogLevel)
	if err != nil {
		return Config{}, fmt.Errorf("invalid -log-level: %w", err)
	}

	cfg := Config{
		Mode:       Mode(*flagMode),
		Sizes:      sizes,
		Batch:      *flagBatch,
		BlockSizes: blocks,
		Iterations: *flagIterations,
		Parallel:   *flagParallel,
		Seed:       *flagSeed,
		ListenAddr: *flagListen,
		EnableOTel: *flagOTel,
		CPUProfile: *flagCPUProfile,
		LogLevel:   level,
	}
	return cfg, cfg.Validate()
}

// Validate checks ranges that flag parsing alone cannot enforce.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeDemo, ModeVerify, ModeBench:
	default:
		return fmt.Errorf("unknown mode %q (want demo, verify or bench)", c.Mode)
	}
	if len(c.Sizes) == 0 {
		return fmt.Errorf("at least one size is required")
	}
	for _, s := range c.Sizes {
		if s <= 0 {
			return fmt.Errorf("size %d must be positive", s)
		}
	}
	if len(c.BlockSizes) == 0 {
		return fmt.Errorf("at least one block size is required")
	}
	for _, b := range c.BlockSizes {
		if b <= 0 {
			return fmt.Errorf("block size %d must be positive", b)
		}
	}
	if c.Batch < 0 {
		return fmt.Errorf("batch %d must not be negative", c.Batch)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations %d must be positive", c.Iterations)
	}
	if c.Parallel <= 0 {
		return fmt.Errorf("parallel %d must be positive", c.Parallel)
	}
	return nil
}

// parseInts parses a comma separated list such as "31,32,33".
func parseInts(s string) ([]int, error) {
	var out []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
