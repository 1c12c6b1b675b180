// Command promote changes a user's role out of band, e.g. to grant admin.
//
//	MONGO_URI=mongodb://localhost:27017 promote -email jane@example.com -role admin
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/core/domain"
	mongodb "github.com/99minutos/catalog-api/internal/infrastructure/db/mongo"
	"github.com/99minutos/catalog-api/internal/pkg/config"
	"github.com/99minutos/catalog-api/pkg/logger"
)

func main() {
	email := flag.String("email", "", "email of the account to update")
	role := flag.String("role", string(domain.RoleAdmin), "role to assign (user|admin)")
	flag.Parse()

	log := logger.Init(logger.Options{Pretty: true, Service: "catalog-promote"})

	r := domain.Role(*role)
	if strings.TrimSpace(*email) == "" || !r.Valid() {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(context.Background(), log, strings.TrimSpace(*email), r); err != nil {
		log.Error().Err(err).Str("email", *email).Msg("role update failed")
		os.Exit(1)
	}
	log.Info().Str("email", *email).Str("role", *role).Msg("role updated")
}

func run(ctx context.Context, log zerolog.Logger, email string, role domain.Role) error {
	cfg, err := config.LoadMongo(ctx)
	if err != nil {
		return err
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.URI, Database: cfg.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	err = mongodb.NewUserRepository(db).UpdateRole(ctx, email, role)
	if errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("no account registered for %s", email)
	}
	return err
}
