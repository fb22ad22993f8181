package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pos-customer-service/internal/domain/customer"
)

func TestUpsertCustomerRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     UpsertCustomerRequest
		wantErr bool
	}{
		{"valid", UpsertCustomerRequest{Name: "Siti"}, false},
		{"valid with details", UpsertCustomerRequest{Name: "Siti", Phone: "0812", City: "Bandung"}, false},
		{"empty name", UpsertCustomerRequest{}, true},
		{"whitespace name", UpsertCustomerRequest{Name: "   "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewCustomerResponse(t *testing.T) {
	now := time.Now()
	cust := &customer.Customer{
		CustomerID: 42,
		ShopID:     7,
		Name:       "Siti Rahma",
		Phone:      "0812",
		CreateDate: now,
		UpdatedAt:  now,
	}

	resp := NewCustomerResponse(cust)

	assert.Equal(t, "42", resp.CustomerID)
	assert.Equal(t, "7", resp.ShopID)
	assert.Equal(t, "Siti Rahma", resp.Name)
	assert.Equal(t, now, resp.CreateDate)
}

func TestNewCustomerResponseNil(t *testing.T) {
	assert.Equal(t, CustomerResponse{}, NewCustomerResponse(nil))
}
