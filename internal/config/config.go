/*
Package config
File: config.go
Description:
    Runtime configuration of the server, read from the environment.
    A '.env' file in the working directory, if present, seeds the
    environment first; variables already set always win.
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the server's runtime configuration.
type Config struct {
	Addr             string        // WAVE_ADDR
	BalanceFile      string        // WAVE_BALANCE_FILE, empty = embedded balance
	TickHz           int           // WAVE_TICK_HZ
	ScanInterval     time.Duration // WAVE_SCAN_INTERVAL
	SnapshotInterval time.Duration // WAVE_SNAPSHOT_INTERVAL
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Addr:             ":8081",
		TickHz:           60,
		ScanInterval:     time.Second,
		SnapshotInterval: time.Second,
	}
}

// TickInterval converts TickHz into a ticker period.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickHz)
}

// Load reads '.env' (if any) and then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv applies the WAVE_* variables on top of Default.
func FromEnv() (Config, error) {
	cfg := Default()

	if val := os.Getenv("WAVE_ADDR"); val != "" {
		cfg.Addr = val
	}
	cfg.BalanceFile = os.Getenv("WAVE_BALANCE_FILE")

	if val, err := getEnvInt("WAVE_TICK_HZ"); err != nil {
		return cfg, err
	} else if val > 0 {
		cfg.TickHz = val
	}
	if val, err := getEnvDuration("WAVE_SCAN_INTERVAL"); err != nil {
		return cfg, err
	} else if val > 0 {
		cfg.ScanInterval = val
	}
	if val, err := getEnvDuration("WAVE_SNAPSHOT_INTERVAL"); err != nil {
		return cfg, err
	} else if val > 0 {
		cfg.SnapshotInterval = val
	}
	return cfg, nil
}

func getEnvInt(key string) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return 0, nil
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer", key, val)
	}
	return num, nil
}

func getEnvDuration(key string) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a duration", key, val)
	}
	return d, nil
}
