package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"shop/internal/gateway/config"
	"shop/internal/gateway/router"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	r, err := router.NewRouter(cfg)
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	addr := fmt.Sprintf(":%d", cfg.GatewayPort)
	log.Printf("Starting API Gateway on port %d", cfg.GatewayPort)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
