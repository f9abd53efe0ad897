package db

import (
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// SeedData populates the database with an initial director account so the
// academy can be administered from a fresh install.
func SeedData(db *sql.DB, now time.Time) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("error hashing seed password: %w", err)
	}

	_, err = tx.Exec(`
        INSERT INTO users (name, email, password_hash, role, created_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (email) DO NOTHING
    `, "Director", "director@muse.academy", string(hash), "director", now)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("error seeding director account: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}
