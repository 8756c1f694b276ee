// Command server runs the realtimechess match server: it wires the
// configuration, Player Registry, Match Registry, and HTTP adapter
// together and listens, following the teacher's own flag-parse-then-
// ListenAndServe main().
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/PetterS/realtimechess/internal/api"
	"github.com/PetterS/realtimechess/internal/config"
	"github.com/PetterS/realtimechess/internal/players"
	"github.com/PetterS/realtimechess/internal/registry"
)

func main() {
	configPath := scanConfigFlag(os.Args[1:])

	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	fs.String("config", "", "path to a TOML config file overriding the flags below")
	cfg, err := config.Load(fs, os.Args[1:], configPath)
	if err != nil {
		log.Fatalf("config.Load: %v", err)
	}

	runtime.GOMAXPROCS(runtime.NumCPU())

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("zap.NewProduction: %v", err)
	}
	defer logger.Sync()

	playerReg := players.NewInMemoryRegistry()
	matches := registry.New(playerReg, logger)

	go reapLoop(matches, cfg.ReapInterval, logger)

	server := api.NewServer(matches, playerReg, cfg, logger)

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, server.Handler()); err != nil {
		logger.Fatal("http.ListenAndServe", zap.Error(err))
	}
}

// scanConfigFlag looks for "-config"/"--config" among args without
// registering every other flag, since those aren't known until config.Load
// builds the real FlagSet -- and flag.Parse aborts at the first flag it
// doesn't recognize.
func scanConfigFlag(args []string) string {
	for i, a := range args {
		switch {
		case a == "-config" || a == "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "-config="):
			return strings.TrimPrefix(a, "-config=")
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		}
	}
	return ""
}

func reapLoop(matches *registry.Registry, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for now := range ticker.C {
		matches.Reap(now)
	}
}
