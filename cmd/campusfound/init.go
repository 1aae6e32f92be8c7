package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/arvindnk/campusfound/internal/db"
	"github.com/arvindnk/campusfound/internal/model"
	"github.com/arvindnk/campusfound/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database, an admin account, and the default campus locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfg.DBPath); err == nil {
			return fmt.Errorf("database file %s already exists", cfg.DBPath)
		}

		database, password, err := initDatabase(cfg.DBPath)
		if err != nil {
			return err
		}
		database.Close()

		fmt.Printf("Database created: %s\n", cfg.DBPath)
		fmt.Println("Schema initialized and campus locations seeded.")
		fmt.Println()
		fmt.Println("Admin account created:")
		fmt.Printf("  Username: admin\n")
		fmt.Printf("  Password: %s\n", password)
		fmt.Println()
		fmt.Println("Save this password, it cannot be recovered.")
		fmt.Println("The admin can change it after logging in.")
		return nil
	},
}

// defaultLocations are the drop-off points seeded on first run. Admins can
// add more through the API.
var defaultLocations = map[string][]string{
	"Main Building":           {"Main Entrance", "Reception Desk"},
	"Science Block":           {"Lab Security", "Science Block Reception"},
	"Library":                 {"Library Front Desk"},
	"Engineering Block":       {"Engineering Reception"},
	"Administration Building": {"Admin Reception"},
}

// initDatabase creates a new database, runs migrations, seeds the default
// locations, and creates the admin user.
func initDatabase(path string) (*sql.DB, string, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}

	fail := func(err error) (*sql.DB, string, error) {
		database.Close()
		os.Remove(path)
		return nil, "", err
	}

	if err := db.Migrate(database); err != nil {
		return fail(fmt.Errorf("running migrations: %w", err))
	}

	ctx := context.Background()
	for building, points := range defaultLocations {
		b, err := store.CreateBuilding(ctx, database, building)
		if err != nil {
			return fail(fmt.Errorf("seeding building %q: %w", building, err))
		}
		for _, point := range points {
			if _, err := store.CreateSecurityPoint(ctx, database, b.ID, point); err != nil {
				return fail(fmt.Errorf("seeding security point %q: %w", point, err))
			}
		}
	}

	password, err := generatePassword(16)
	if err != nil {
		return fail(fmt.Errorf("generating password: %w", err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fail(fmt.Errorf("hashing password: %w", err))
	}

	if _, err := store.CreateUser(ctx, database, "admin", string(hash), model.RoleAdmin); err != nil {
		return fail(fmt.Errorf("creating admin user: %w", err))
	}

	return database, password, nil
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
