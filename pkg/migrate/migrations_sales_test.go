package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSalesMigrationEnforcesOneSalePerArtwork(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_sales_table.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no sales migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS sales",
		"sales_artwork_id_key UNIQUE (artwork_id)",
		"sales_buyer_user_id_idx",
		"sales_sale_date_idx",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestArtworksMigrationDefaultsAvailability(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_artworks_table.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no artworks migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS artworks",
		"DEFAULT 'AVAILABLE'",
		"artworks_artist_id_idx",
		"artworks_availability_status_idx",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
