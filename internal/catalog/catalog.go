// Package catalog defines the read-only shapes supplied by the menu
// provider. The cart consumes these as input and never mutates them.
package catalog

import "github.com/manify/cram-eats/internal/domain"

type Item struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	UnitPrice domain.Cents `json:"unitPrice"`
	ImageURL  string       `json:"imageUrl,omitempty"`
	Category  string       `json:"category,omitempty"`
	Available bool         `json:"available"`
}

type Restaurant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
