package main

import (
	"StockSniper/internal/database"
	"StockSniper/internal/server"
	"StockSniper/pkg/config"
	"flag"
	"log"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := flag.String("config", "config.yml", "Path to the YAML config file")
	flag.Parse()

	cfg := config.LoadConfig(*configPath)

	repo := database.InitDB(cfg.Database.Path)
	defer repo.Close()

	log.Println("Starting purchase history API server...")
	server.Start(repo, cfg)
}
