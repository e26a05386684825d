package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/devlinks/adapters/persistence"
	linkUC "github.com/khoahotran/devlinks/internal/application/usecase/link"
	"github.com/khoahotran/devlinks/internal/config"
	"github.com/khoahotran/devlinks/internal/domain/profile"
	"github.com/khoahotran/devlinks/internal/domain/user"
	"github.com/khoahotran/devlinks/pkg/auth"
	"github.com/khoahotran/devlinks/pkg/logger"
)

// Seeds one account with a profile and a few links.
func main() {
	fmt.Println("adding demo owner into database...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env)

	ownerEmail := os.Getenv("OWNER_EMAIL")
	ownerPassword := os.Getenv("OWNER_PASSWORD")
	if ownerEmail == "" || ownerPassword == "" {
		log.Fatal("OWNER_EMAIL and OWNER_PASSWORD are required")
	}

	hash, err := auth.HashPassword(ownerPassword)
	if err != nil {
		log.Fatalf("cannot hash password: %v", err)
	}

	ctx := context.Background()
	pool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	users := persistence.NewPostgresUserRepo(pool, appLogger)
	owner := &user.User{ID: uuid.New(), Email: ownerEmail, PasswordHash: hash, CreatedAt: time.Now().UTC()}
	if err := users.Create(ctx, owner); err != nil {
		if !errors.Is(err, user.ErrEmailTaken) {
			log.Fatalf("cannot add user: %v", err)
		}
		if owner, err = users.FindByEmail(ctx, ownerEmail); err != nil {
			log.Fatalf("cannot find existing user: %v", err)
		}
	}

	store := persistence.NewPostgresDocumentStore(pool, appLogger)
	profiles := persistence.NewDocumentProfileRepo(store, appLogger)
	if err := profiles.Replace(ctx, &profile.Profile{OwnerID: owner.ID, FirstName: "Demo", LastName: "Owner", Email: ownerEmail}); err != nil {
		log.Fatalf("cannot write profile: %v", err)
	}

	links := linkUC.NewLinkUseCase(persistence.NewDocumentLinkRepo(store, appLogger), appLogger)
	existing, err := links.List(ctx, owner.ID)
	if err != nil {
		log.Fatalf("cannot list links: %v", err)
	}
	if len(existing) == 0 {
		for _, l := range []linkUC.AddLinkInput{
			{Platform: "GitHub", URL: "https://github.com/"},
			{Platform: "LinkedIn", URL: "https://www.linkedin.com/"},
			{Platform: "YouTube", URL: "https://www.youtube.com/"},
		} {
			l.OwnerID = owner.ID
			if _, err := links.Add(ctx, l); err != nil {
				log.Fatalf("cannot add link: %v", err)
			}
		}
	}

	fmt.Printf("added or updated owner '%s' (%s) successfully!\n", ownerEmail, owner.ID)
}
