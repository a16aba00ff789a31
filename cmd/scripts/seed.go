package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/yesbharath/spinwheel-backend/internal/config"
	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories"
	mongorepo "github.com/yesbharath/spinwheel-backend/internal/repositories/mongodb"
	"github.com/yesbharath/spinwheel-backend/internal/services"
	"github.com/yesbharath/spinwheel-backend/pkg/mongodb"
)

// Seeds a fresh active contest with the reference prize table and creates
// the initial admin user. Existing contests are removed; an existing admin
// with the same username is left alone.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	mongoURI := config.GetEnv("MONGODB_URI", "mongodb://localhost:27017")
	dbName := config.GetEnv("MONGODB_DATABASE", "yb-luckywheel")
	adminUsername := config.GetEnv("ADMIN_USERNAME", "")
	adminPassword := config.GetEnv("ADMIN_PASSWORD", "")

	client, err := mongodb.NewClient(mongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(dbName)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	contestRepo := mongorepo.NewContestRepository(db)
	participantRepo := mongorepo.NewParticipantRepository(db)
	redeemRepo := mongorepo.NewRedeemRepository(db)
	adminRepo := mongorepo.NewAdminUserRepository(db)

	if err := contestRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create contest indexes: %v", err)
	}
	if err := participantRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create participant indexes: %v", err)
	}

	if err := contestRepo.DeleteAll(ctx); err != nil {
		log.Fatalf("Failed to clear existing contests: %v", err)
	}
	log.Println("Cleared existing contests")

	contestService := services.NewContestService(contestRepo, participantRepo, redeemRepo)
	contest, err := contestService.Seed(ctx, config.GetEnv("CONTEST_NAME", "Launch Event Contest"))
	if err != nil {
		log.Fatalf("Failed to seed contest: %v", err)
	}
	log.Printf("Seeded contest %s with %d prize tiers", contest.ID.Hex(), len(contest.Prizes))

	if adminUsername == "" || adminPassword == "" {
		log.Println("ADMIN_USERNAME/ADMIN_PASSWORD not set, skipping admin creation")
		return
	}

	if _, err := adminRepo.FindByUsername(ctx, adminUsername); err == nil {
		log.Printf("Admin %q already exists, skipping", adminUsername)
		return
	} else if !errors.Is(err, repositories.ErrNotFound) {
		log.Fatalf("Failed to look up admin: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}
	admin := &models.AdminUser{
		Username:     adminUsername,
		PasswordHash: string(hash),
		Role:         config.GetEnv("ADMIN_ROLE", "admin"),
	}
	if err := adminRepo.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}
	log.Printf("Created admin %q", adminUsername)
}
