package main

import (
	"log"
	"net/http"

	"github.com/lojf/tuition/internal/config"
	"github.com/lojf/tuition/internal/db"
	"github.com/lojf/tuition/internal/web"
)

func main() {
	cfg := config.Load()

	if err := db.Init(cfg.DBPath, cfg.DBDebug); err != nil {
		log.Fatalf("db init: %v", err)
	}

	r := web.Router()

	log.Printf("LOJF tuition listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		log.Fatal(err)
	}
}
