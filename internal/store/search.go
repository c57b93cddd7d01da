package store

import (
	"sort"
	"strings"

	"github.com/xenking/shoplite/internal/domain/product"
)

// SearchProducts returns catalog entries whose name or description contains
// the keyword, case-insensitively. Results are ordered by product ID.
func (s *Store) SearchProducts(keyword string) []*product.Product {
	needle := strings.ToLower(keyword)

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*product.Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name()), needle) ||
			strings.Contains(strings.ToLower(p.Description()), needle) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// AvailableProducts returns all catalog entries with stock to sell, ordered
// by product ID.
func (s *Store) AvailableProducts() []*product.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.availableProducts()
}

// availableProducts filters in-stock products. Caller holds s.mu.
func (s *Store) availableProducts() []*product.Product {
	var out []*product.Product
	for _, p := range s.products {
		if p.Available() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}
