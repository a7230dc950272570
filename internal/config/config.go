package config

import (
	"log"
	"os"
	"time"
)

type Config struct {
	Port       string
	DBDSN      string
	LogFile    string
	SweepEvery time.Duration
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "libris.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./libris.log"
	}
	sweep := 10 * time.Minute
	if raw := os.Getenv("SWEEP_EVERY"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			sweep = d
		} else {
			log.Printf("[warn] ignoring bad SWEEP_EVERY=%q", raw)
		}
	}

	cfg := Config{Port: port, DBDSN: dsn, LogFile: logFile, SweepEvery: sweep}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s SWEEP_EVERY=%s", cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.SweepEvery)
	return cfg
}
