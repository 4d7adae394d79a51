// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Config holds the runtime knobs for the poker server. Values come from the
// environment (main autoloads a .env file via godotenv); anything missing or
// malformed falls back to its default with a logged warning.
type Config struct {
	Addr            string        // POKER_ADDR
	LobbyCapacity   int           // LOBBY_CAPACITY, seats per lobby
	StoriesPerLobby int           // STORIES_PER_LOBBY, batch generated at creation
	RevealDelay     time.Duration // REVEAL_DELAY, pause before votes are revealed
	LogLevel        log.Level     // LOG_LEVEL
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:            ":1337",
		LobbyCapacity:   3,
		StoriesPerLobby: 5,
		RevealDelay:     5 * time.Second,
		LogLevel:        log.InfoLevel,
	}
}

// Load reads the configuration from the environment on top of Default.
func Load() Config {
	cfg := Default()

	if v := os.Getenv("POKER_ADDR"); v != "" {
		cfg.Addr = v
	}
	cfg.LobbyCapacity = intEnv("LOBBY_CAPACITY", cfg.LobbyCapacity)
	cfg.StoriesPerLobby = intEnv("STORIES_PER_LOBBY", cfg.StoriesPerLobby)

	if v := os.Getenv("REVEAL_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			cfg.RevealDelay = d
		} else {
			log.Warnf("invalid REVEAL_DELAY %q, using %s", v, cfg.RevealDelay)
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if lvl, err := log.ParseLevel(v); err == nil {
			cfg.LogLevel = lvl
		} else {
			log.Warnf("invalid LOG_LEVEL %q, using %s", v, cfg.LogLevel)
		}
	}
	return cfg
}

func intEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warnf("invalid %s %q, using %d", key, v, def)
		return def
	}
	return n
}
