package store

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/shoplite/internal/domain/order"
)

// Stats is an aggregate view over the store's collections. Revenue counts
// delivered orders only.
type Stats struct {
	StoreName         string
	TotalProducts     int
	AvailableProducts int
	TotalUsers        int
	TotalOrders       int
	TotalRevenue      decimal.Decimal
}

// Statistics folds the store's collections into a Stats snapshot.
func (s *Store) Statistics() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	revenue := decimal.Zero
	for _, o := range s.orders {
		if o.Status() == order.StatusDelivered {
			revenue = revenue.Add(o.Total())
		}
	}

	return Stats{
		StoreName:         s.name,
		TotalProducts:     len(s.products),
		AvailableProducts: len(s.availableProducts()),
		TotalUsers:        len(s.users),
		TotalOrders:       len(s.orders),
		TotalRevenue:      revenue,
	}
}
