package main

import (
	"log"

	"labocr/internal/config"
	"labocr/internal/extract"
	"labocr/internal/logger"
	"labocr/internal/ocr"
	"labocr/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error:", err)
	}

	engine, err := ocr.NewEngine(cfg.Engine)
	if err != nil {
		log.Fatal("Error:", err)
	}
	defer engine.Close()

	extractor := extract.New(engine, ocr.DefaultConfig())
	srv := server.New(extractor, cfg.UploadDir)

	logger.Infof("lab report OCR service listening on %s", cfg.ListenAddr)
	if err := srv.Start(cfg.ListenAddr); err != nil {
		log.Fatal("Error:", err)
	}
}
