package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"

	"pos-customer-service/internal/domain/customer"
	"pos-customer-service/internal/pkg/apperrors"
)

const pgxmockExpectationsNotMetMsg = "pgxmock expectations not met"

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var customerTest = &customer.Customer{
	CustomerID: 1,
	ShopID:     7,
	Name:       "Siti Rahma",
	Phone:      "0812-555-0199",
	Email:      "siti.rahma@example.com",
	Address:    "Jl. Merdeka 10",
	City:       "Bandung",
	Notes:      "regular",
	CreateDate: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
	UpdatedAt:  time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
}

func setupCustomerRepo(t *testing.T) (context.Context, *CustomerRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	ctx := context.Background()
	repo := NewCustomerRepository(mockPool, logger)

	return ctx, repo, mockPool
}

func TestCreateCustomerWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	query := `
        INSERT INTO customers (shop_id, name, phone, email, address, city, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        RETURNING id, created_at, updated_at`

	cust := &customer.Customer{
		ShopID:  customerTest.ShopID,
		Name:    customerTest.Name,
		Phone:   customerTest.Phone,
		Email:   customerTest.Email,
		Address: customerTest.Address,
		City:    customerTest.City,
		Notes:   customerTest.Notes,
	}

	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(
		cust.ShopID,
		cust.Name,
		cust.Phone,
		cust.Email,
		cust.Address,
		cust.City,
		cust.Notes,
	).WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
		AddRow(customerTest.CustomerID, customerTest.CreateDate, customerTest.UpdatedAt))

	err := repo.Save(ctx, cust)
	assert.NoError(t, err)
	assert.Equal(t, customerTest.CustomerID, cust.CustomerID)
	assert.Equal(t, customerTest.CreateDate, cust.CreateDate)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCreateCustomerWhenUniqueViolation(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO customers")).WithArgs(
		customerTest.ShopID,
		customerTest.Name,
		customerTest.Phone,
		customerTest.Email,
		customerTest.Address,
		customerTest.City,
		customerTest.Notes,
	).WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "customers_shop_id_name_key"})

	cust := *customerTest
	cust.CustomerID = 0
	err := repo.Save(ctx, &cust)

	assert.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveExistingCustomerWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	query := `
        UPDATE customers
        SET name = $1,
            phone = $2,
            email = $3,
            address = $4,
            city = $5,
            notes = $6,
            updated_at = NOW()
        WHERE id = $7 AND shop_id = $8
        RETURNING updated_at`

	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(
		customerTest.Name,
		customerTest.Phone,
		customerTest.Email,
		customerTest.Address,
		customerTest.City,
		customerTest.Notes,
		customerTest.CustomerID,
		customerTest.ShopID,
	).WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

	cust := *customerTest
	err := repo.Save(ctx, &cust)

	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveExistingCustomerWhenNotFound(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta("UPDATE customers")).WithArgs(
		customerTest.Name,
		customerTest.Phone,
		customerTest.Email,
		customerTest.Address,
		customerTest.City,
		customerTest.Notes,
		customerTest.CustomerID,
		customerTest.ShopID,
	).WillReturnError(pgx.ErrNoRows)

	cust := *customerTest
	err := repo.Save(ctx, &cust)

	assert.ErrorIs(t, err, customer.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveNilCustomer(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	err := repo.Save(ctx, nil)

	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestFindCustomerByIDWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	query := `
        SELECT id, shop_id, name, phone, email, address, city, notes, created_at, updated_at
        FROM customers
        WHERE id = $1 AND shop_id = $2`

	mockPool.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(customerTest.CustomerID, customerTest.ShopID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "shop_id", "name", "phone", "email", "address", "city", "notes", "created_at", "updated_at"}).
			AddRow(customerTest.CustomerID, customerTest.ShopID, customerTest.Name, customerTest.Phone,
				customerTest.Email, customerTest.Address, customerTest.City, customerTest.Notes,
				customerTest.CreateDate, customerTest.UpdatedAt))

	cust, err := repo.FindByID(ctx, customerTest.ShopID, customerTest.CustomerID)

	assert.NoError(t, err)
	assert.Equal(t, customerTest, cust)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindCustomerByIDWhenNotFound(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta("SELECT id, shop_id, name")).
		WithArgs(int64(99), customerTest.ShopID).
		WillReturnError(pgx.ErrNoRows)

	cust, err := repo.FindByID(ctx, customerTest.ShopID, 99)

	assert.ErrorIs(t, err, customer.ErrNotFound)
	assert.Nil(t, cust)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindAllCustomersWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	query := `
        SELECT id, shop_id, name, phone, email, address, city, notes, created_at, updated_at
        FROM customers
        WHERE shop_id = $1
        ORDER BY lower(name) ASC`

	mockPool.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(customerTest.ShopID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "shop_id", "name", "phone", "email", "address", "city", "notes", "created_at", "updated_at"}).
			AddRow(int64(2), customerTest.ShopID, "Agus", "", "", "", "", "", customerTest.CreateDate, customerTest.UpdatedAt).
			AddRow(customerTest.CustomerID, customerTest.ShopID, customerTest.Name, customerTest.Phone,
				customerTest.Email, customerTest.Address, customerTest.City, customerTest.Notes,
				customerTest.CreateDate, customerTest.UpdatedAt))

	customers, err := repo.FindAll(ctx, customerTest.ShopID)

	assert.NoError(t, err)
	assert.Len(t, customers, 2)
	assert.Equal(t, "Agus", customers[0].Name)
	assert.Equal(t, customerTest.Name, customers[1].Name)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindAllCustomersWhenQueryFails(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta("SELECT id, shop_id, name")).
		WithArgs(customerTest.ShopID).
		WillReturnError(errors.New("connection refused"))

	customers, err := repo.FindAll(ctx, customerTest.ShopID)

	assert.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.Nil(t, customers)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestDeleteCustomerWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	query := `DELETE FROM customers WHERE id = $1 AND shop_id = $2`

	mockPool.ExpectExec(regexp.QuoteMeta(query)).
		WithArgs(customerTest.CustomerID, customerTest.ShopID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(ctx, customerTest.ShopID, customerTest.CustomerID)

	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestDeleteCustomerWhenNotFound(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectExec(regexp.QuoteMeta("DELETE FROM customers")).
		WithArgs(int64(99), customerTest.ShopID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(ctx, customerTest.ShopID, 99)

	assert.ErrorIs(t, err, customer.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestTranslateDBError(t *testing.T) {
	assert.NoError(t, translateDBError(nil, logger))
	assert.ErrorIs(t, translateDBError(pgx.ErrNoRows, logger), apperrors.ErrNotFound)
	assert.ErrorIs(t, translateDBError(&pgconn.PgError{Code: "23505"}, logger), apperrors.ErrAlreadyExists)
	assert.ErrorIs(t, translateDBError(&pgconn.PgError{Code: "42P01"}, logger), apperrors.ErrDatabase)
	assert.ErrorIs(t, translateDBError(errors.New("boom"), logger), apperrors.ErrDatabase)
}
