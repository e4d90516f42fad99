package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	api "github.com/rpupo63/bloggie/api"
	"github.com/rpupo63/bloggie/auth"
	"github.com/rpupo63/bloggie/config"
	"github.com/rpupo63/bloggie/database"
	"github.com/rpupo63/bloggie/models"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	setupLogger(cfg)
	log.Info().Str("env", cfg.Env).Str("dbType", cfg.DBType).Msg("Initializing app...")

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// If generating models, run generation and exit
	if cfg.GenerateModels {
		log.Info().Str("outPath", cfg.GeneratedPath).Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db, cfg.GeneratedPath); err != nil {
			log.Fatal().Err(err).Msg("Error generating models")
		}
		return
	}

	if err := models.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("Error migrating database")
	}

	passwordHash, err := auth.HashPassword(cfg.SuperAdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("Error hashing super-admin password")
	}
	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = database.Seed(seedCtx, db, database.SeedConfig{
		SuperAdminEmail:        cfg.SuperAdminEmail,
		SuperAdminPasswordHash: passwordHash,
	})
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Error seeding database")
	}

	currentDB := database.New(db)

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(cfg, currentDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// setupLogger sets the global level and uses a console writer in development.
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
