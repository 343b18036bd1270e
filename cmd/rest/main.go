package main

import (
	"context"
	"log"

	"chowbot-be/internal/bootstrap"
	"chowbot-be/internal/config"
	"chowbot-be/internal/server"
	"chowbot-be/internal/tracer"
	"chowbot-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Receipt Consumer...")
		if err := container.ReceiptConsumer.Run(context.Background()); err != nil {
			log.Printf("Background Receipt Consumer Error: %v", err)
		}
	}()

	go container.CleanupService.Run(context.Background())

	if err := container.NotifierService.Start(); err != nil {
		log.Printf("Background Notifier Error: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
