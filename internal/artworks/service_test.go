package artworks

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tudor-manea/lahinch/pkg/db/models"
)

func stringPtr(v string) *string { return &v }

func TestApplyUpdateToArtwork(t *testing.T) {
	price := decimal.RequireFromString("450.00")
	artwork := &models.Artwork{
		Title:  "Old Title",
		Medium: stringPtr("oil on canvas"),
	}

	newPrice := decimal.RequireFromString("620.50")
	year := 2019
	applyUpdateToArtwork(artwork, UpdateArtworkInput{
		Title:       stringPtr("  Cliff Light  "),
		YearCreated: &year,
		Price:       &newPrice,
	})

	if artwork.Title != "Cliff Light" {
		t.Fatalf("expected trimmed title, got %q", artwork.Title)
	}
	if artwork.Medium == nil || *artwork.Medium != "oil on canvas" {
		t.Fatalf("expected medium untouched, got %v", artwork.Medium)
	}
	if artwork.YearCreated == nil || *artwork.YearCreated != 2019 {
		t.Fatalf("expected year set, got %v", artwork.YearCreated)
	}
	if artwork.Price == nil || !artwork.Price.Equal(newPrice) {
		t.Fatalf("expected price %s, got %v", newPrice, artwork.Price)
	}
	if artwork.Price.Equal(price) {
		t.Fatal("price should have changed")
	}
}

func TestApplyUpdateToArtworkBlankTitleIgnored(t *testing.T) {
	artwork := &models.Artwork{Title: "Keeper"}

	applyUpdateToArtwork(artwork, UpdateArtworkInput{Title: stringPtr("   ")})

	if artwork.Title != "Keeper" {
		t.Fatalf("expected title untouched, got %q", artwork.Title)
	}
}
