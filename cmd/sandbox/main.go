package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"rigid3d/internal/game"
	"rigid3d/internal/physics"
)

func main() {
	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		// Detect "go run" by checking if executable is in a temp/go-build directory
		if !strings.Contains(execDir, "go-build") {
			os.Chdir(execDir)
		}
	}

	configPath := flag.String("config", "physics.json", "physics config file")
	flag.Parse()

	cfg, err := physics.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Sandbox: %v", err)
	}

	g := game.New(cfg)
	g.Run()
}
