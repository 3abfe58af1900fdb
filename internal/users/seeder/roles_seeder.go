package seeder

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/harborblog/backend/internal/authz"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RolesSeeder ensures the role catalog exists. Registration assigns the USER
// role by name, so the rows must be present before the first signup.
type RolesSeeder struct{}

// NewRolesSeeder creates a new roles seeder
func NewRolesSeeder() *RolesSeeder {
	return &RolesSeeder{}
}

// Name returns the name of this seeder
func (s *RolesSeeder) Name() string {
	return "RolesSeeder"
}

// Seed inserts the built-in roles. It is idempotent: existing rows are left
// untouched so manually adjusted descriptions survive restarts.
func (s *RolesSeeder) Seed(ctx context.Context, db *pgxpool.Pool) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	roles := []struct {
		name        string
		description string
	}{
		{authz.RoleAdmin, "Full moderation rights over users and content"},
		{authz.RoleUser, "Standard member: create content, manage own profile"},
	}

	for _, role := range roles {
		if err := s.seedRole(ctx, tx, role.name, role.description); err != nil {
			return fmt.Errorf("failed to seed role %s: %w", role.name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *RolesSeeder) seedRole(ctx context.Context, tx pgx.Tx, name, description string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO roles (id, name, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING`,
		uuid.New(), name, description,
	)
	return err
}
