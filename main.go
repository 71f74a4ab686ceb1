package main

import (
	"fmt"
	"log"
	"os"

	"github.com/KatanaSword/portfolio/internal/config"
	"github.com/KatanaSword/portfolio/internal/database"
	"github.com/KatanaSword/portfolio/internal/mail"
	"github.com/KatanaSword/portfolio/internal/router"
	"github.com/KatanaSword/portfolio/internal/storage"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// ensure basic directories exist
	if err := ensureDir(cfg.App.UploadDir); err != nil {
		log.Fatalf("create upload dir: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// external collaborators
	store, err := storage.NewCloudinaryStore(cfg.Storage)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}
	mailer := mail.NewSMTPMailer(cfg.Mail)

	// setup router
	r := router.SetupRouter(cfg, db, store, mailer)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
