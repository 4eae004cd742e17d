package main

import (
	"log"
	"os"

	"LocalSketch/internal/config"
	"LocalSketch/internal/logging"
	"LocalSketch/internal/ui"
)

func main() {
	path, err := config.Path()
	if err != nil {
		log.Printf("config path: %v; using defaults", err)
	}
	cfg := config.Default()
	if path != "" {
		if cfg, err = config.Load(path); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	logging.SetLogger(logging.New(os.Stderr, cfg.Log.Level))
	logging.Logger().Info("starting", "config", path, "width", cfg.Canvas.Width, "height", cfg.Canvas.Height)

	var drawing string
	if args := os.Args; len(args) > 1 {
		drawing = args[1]
	}
	ui.RunApp(cfg, drawing)
}
