package customer

import (
	"strings"
	"time"
)

type Customer struct {
	CustomerID int64     `json:"customerId"`
	ShopID     int64     `json:"shopId"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	Notes      string    `json:"notes"`
	CreateDate time.Time `json:"createDate"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func NewCustomer(shopID int64, name string) *Customer {
	now := time.Now()
	return &Customer{
		ShopID:     shopID,
		Name:       name,
		CreateDate: now,
		UpdatedAt:  now,
	}
}

// MatchesQuery reports whether the customer matches a case-insensitive
// substring search over name, phone and email. This mirrors the list
// screen's client-side filter.
func (c *Customer) MatchesQuery(query string) bool {
	if query == "" {
		return true
	}
	return containsFold(c.Name, query) ||
		containsFold(c.Phone, query) ||
		containsFold(c.Email, query)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
