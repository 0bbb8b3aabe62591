package database

import (
	"StockSniper/internal/models"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// DBRepository wraps the purchase history database.
type DBRepository struct {
	DB *sql.DB
}

const createPurchasesTableSQL = `
CREATE TABLE IF NOT EXISTS purchases (
	"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	"product_url" TEXT NOT NULL,
	"product_name" TEXT,
	"variant_id" TEXT,
	"price" REAL,
	"outcome" TEXT NOT NULL,
	"reason" TEXT,
	"attempted_at" DATETIME NOT NULL
);`

// Open opens (or creates) the history database at filepath.
func Open(filepath string) (*DBRepository, error) {
	db, err := sql.Open("sqlite", filepath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err = db.Exec(createPurchasesTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating purchases table: %w", err)
	}
	return &DBRepository{DB: db}, nil
}

// InitDB is Open for entry points: any error is fatal.
func InitDB(filepath string) *DBRepository {
	repo, err := Open(filepath)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	log.Println("Database initialized successfully.")
	return repo
}

func (repo *DBRepository) Close() {
	repo.DB.Close()
}

// RecordAttempt appends one checkout attempt. A zero AttemptedAt is set to now.
func (repo *DBRepository) RecordAttempt(attempt models.PurchaseAttempt) error {
	if attempt.AttemptedAt.IsZero() {
		attempt.AttemptedAt = time.Now()
	}

	stmt, err := repo.DB.Prepare(`
	INSERT INTO purchases (
		product_url, product_name, variant_id, price, outcome, reason, attempted_at
	) VALUES (?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		attempt.ProductURL, attempt.ProductName, attempt.VariantID, attempt.Price,
		attempt.Outcome, attempt.Reason, attempt.AttemptedAt.UTC(),
	)
	if err != nil {
		log.Printf("Failed to record attempt for %s: %v", attempt.ProductURL, err)
		return err
	}
	return nil
}

// GetAttempts returns attempts newest first. A limit below 1 returns all rows.
func (repo *DBRepository) GetAttempts(limit, offset int) ([]models.PurchaseAttempt, error) {
	query := `SELECT id, product_url, product_name, variant_id, price, outcome, reason, attempted_at
	          FROM purchases ORDER BY attempted_at DESC, id DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
		if offset > 0 {
			query += " OFFSET ?"
			args = append(args, offset)
		}
	}

	rows, err := repo.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.PurchaseAttempt
	for rows.Next() {
		var a models.PurchaseAttempt
		var name, variant, reason sql.NullString
		var price sql.NullFloat64
		if err := rows.Scan(&a.ID, &a.ProductURL, &name, &variant, &price, &a.Outcome, &reason, &a.AttemptedAt); err != nil {
			log.Printf("Error scanning attempt row: %v", err)
			continue
		}
		a.ProductName = name.String
		a.VariantID = variant.String
		a.Price = price.Float64
		a.Reason = reason.String
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// CountAttempts returns the number of recorded attempts.
func (repo *DBRepository) CountAttempts() (int, error) {
	var count int
	err := repo.DB.QueryRow("SELECT COUNT(*) FROM purchases").Scan(&count)
	return count, err
}
