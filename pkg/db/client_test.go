package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/homestockhq/homestock-backend/pkg/config"
)

func openTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		Path:   "file::memory:?cache=shared",
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{Driver: "oracle"}, nil)
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNewRequiresSQLitePath(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{Driver: config.DriverSQLite}, nil)
	if err == nil {
		t.Fatal("expected error for missing sqlite path")
	}
}

func TestPing(t *testing.T) {
	client := openTestClient(t)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client := openTestClient(t)
	if err := client.DB().Exec("CREATE TABLE tx_probe (id INTEGER PRIMARY KEY)").Error; err != nil {
		t.Fatalf("create table: %v", err)
	}

	sentinel := errors.New("abort")
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Exec("INSERT INTO tx_probe (id) VALUES (1)").Error; err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}

	var count int64
	if err := client.DB().Raw("SELECT COUNT(*) FROM tx_probe").Scan(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback, found %d rows", count)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	sqliteErr := fmt.Errorf("UNIQUE constraint failed: wishlist_details.item_id")
	if !IsUniqueViolation(sqliteErr, "") {
		t.Fatal("expected sqlite unique violation to match")
	}
	if !IsUniqueViolation(sqliteErr, "wishlist_details.item_id") {
		t.Fatal("expected constraint-name match")
	}
	if IsUniqueViolation(sqliteErr, "other_constraint") {
		t.Fatal("expected constraint-name mismatch")
	}
	if IsUniqueViolation(errors.New("syntax error"), "") {
		t.Fatal("expected non-unique error to not match")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil must not match")
	}
}
