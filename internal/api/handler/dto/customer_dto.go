package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"pos-customer-service/internal/domain/customer"
)

// UpsertCustomerRequest is the payload for both create and full update.
type UpsertCustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	Notes   string `json:"notes"`
}

func (r *UpsertCustomerRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

func (r *UpsertCustomerRequest) ToInput() customer.CustomerInput {
	return customer.CustomerInput{
		Name:    r.Name,
		Phone:   r.Phone,
		Email:   r.Email,
		Address: r.Address,
		City:    r.City,
		Notes:   r.Notes,
	}
}

type CustomerResponse struct {
	CustomerID string    `json:"customerId"`
	ShopID     string    `json:"shopId"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone,omitempty"`
	Email      string    `json:"email,omitempty"`
	Address    string    `json:"address,omitempty"`
	City       string    `json:"city,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreateDate time.Time `json:"createDate"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}

	return CustomerResponse{
		CustomerID: strconv.FormatInt(cust.CustomerID, 10),
		ShopID:     strconv.FormatInt(cust.ShopID, 10),
		Name:       cust.Name,
		Phone:      cust.Phone,
		Email:      cust.Email,
		Address:    cust.Address,
		City:       cust.City,
		Notes:      cust.Notes,
		CreateDate: cust.CreateDate,
		UpdatedAt:  cust.UpdatedAt,
	}
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}
