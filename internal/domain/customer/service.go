package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"pos-customer-service/internal/domain/loan"
	"pos-customer-service/internal/event"
	"pos-customer-service/internal/infrastructure/monitoring"
)

const (
	inputValidationPassed = "Input validation passed"
	customerNotFound      = "Customer not found by repository"
)

// CustomerInput carries the editable fields of a customer record.
type CustomerInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
	City    string
	Notes   string
}

func (in *CustomerInput) trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.Notes = strings.TrimSpace(in.Notes)
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, shopID int64, input CustomerInput) (*Customer, error)
	GetCustomer(ctx context.Context, shopID, customerID int64) (*Customer, error)
	ListCustomers(ctx context.Context, shopID int64) ([]*Customer, error)
	SearchCustomers(ctx context.Context, shopID int64, query string) ([]*Customer, error)
	UpdateCustomer(ctx context.Context, shopID, customerID int64, input CustomerInput) (*Customer, error)
	DeleteCustomer(ctx context.Context, shopID, customerID int64) error
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo    CustomerRepository
	loanSvc loan.LoanService
	pub     event.EventPublisher
	logger  *slog.Logger
}

func NewCustomerService(repo CustomerRepository, loanSvc loan.LoanService, pub event.EventPublisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	if pub == nil {
		logger.Warn("Warning: No event publisher provided to NewCustomerService, using no-op publisher")
		pub = event.NewNoopEventPublisher(logger)
	}

	return &customerService{
		repo:    repo,
		loanSvc: loanSvc,
		pub:     pub,
		logger:  logger.With(slog.String("component", "customerService")),
	}
}

func newCustomerEventPayload(cust *Customer) event.CustomerEventPayload {
	if cust == nil {
		return event.CustomerEventPayload{}
	}
	return event.CustomerEventPayload{
		CustomerID: cust.CustomerID,
		ShopID:     cust.ShopID,
		Name:       cust.Name,
		Phone:      cust.Phone,
		Email:      cust.Email,
		Address:    cust.Address,
		City:       cust.City,
		CreateDate: cust.CreateDate,
		UpdatedAt:  cust.UpdatedAt,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, shopID int64, input CustomerInput) (*Customer, error) {
	logCtx := s.logger.With(slog.Int64("shopID", shopID))
	logCtx.InfoContext(ctx, "Attempting to create new customer")

	input.trim()
	if input.Name == "" {
		logCtx.WarnContext(ctx, "Validation failed: name is empty")
		return nil, errors.New("customer name cannot be empty")
	}
	logCtx = logCtx.With(slog.String("validated_name", input.Name))
	logCtx.InfoContext(ctx, inputValidationPassed)

	cust := &Customer{
		ShopID:  shopID,
		Name:    input.Name,
		Phone:   input.Phone,
		Email:   input.Email,
		Address: input.Address,
		City:    input.City,
		Notes:   input.Notes,
	}

	logCtx.InfoContext(ctx, "Calling repository Save")
	if err := s.repo.Save(ctx, cust); err != nil {
		logCtx.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}
	logCtx = logCtx.With(slog.Int64("customerID", cust.CustomerID))
	monitoring.Business.CustomersCreatedTotal.Inc()

	createdEvent := event.CustomerCreatedEvent{
		Timestamp: time.Now(),
		Payload:   newCustomerEventPayload(cust),
	}
	if pubErr := s.pub.PublishCustomerCreated(ctx, createdEvent); pubErr != nil {
		logCtx.ErrorContext(ctx, "Customer created, but FAILED to publish creation event", slog.Any("error", pubErr))
	}

	logCtx.InfoContext(ctx, "Successfully created new customer")
	return cust, nil
}

func (s *customerService) GetCustomer(ctx context.Context, shopID, customerID int64) (*Customer, error) {
	logCtx := s.logger.With(slog.Int64("shopID", shopID), slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Attempting to get customer by ID")

	cust, err := s.repo.FindByID(ctx, shopID, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logCtx.WarnContext(ctx, customerNotFound)
			return nil, ErrNotFound
		}
		logCtx.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	logCtx.InfoContext(ctx, "Successfully retrieved customer")
	return cust, nil
}

func (s *customerService) ListCustomers(ctx context.Context, shopID int64) ([]*Customer, error) {
	logCtx := s.logger.With(slog.Int64("shopID", shopID))
	logCtx.InfoContext(ctx, "Attempting to list customers for shop")

	customers, err := s.repo.FindAll(ctx, shopID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers for shop %d: %w", shopID, err)
	}

	// The list screen is ordered by lowercase name.
	sort.SliceStable(customers, func(i, j int) bool {
		return strings.ToLower(customers[i].Name) < strings.ToLower(customers[j].Name)
	})

	logCtx.InfoContext(ctx, "Successfully retrieved customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (s *customerService) SearchCustomers(ctx context.Context, shopID int64, query string) ([]*Customer, error) {
	query = strings.TrimSpace(query)
	logCtx := s.logger.With(slog.Int64("shopID", shopID), slog.String("query", query))
	logCtx.InfoContext(ctx, "Attempting to search customers")

	customers, err := s.ListCustomers(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return customers, nil
	}

	matched := make([]*Customer, 0, len(customers))
	for _, cust := range customers {
		if cust.MatchesQuery(query) {
			matched = append(matched, cust)
		}
	}

	logCtx.InfoContext(ctx, "Search finished", slog.Int("matched", len(matched)))
	return matched, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, shopID, customerID int64, input CustomerInput) (*Customer, error) {
	logCtx := s.logger.With(slog.Int64("shopID", shopID), slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Attempting to update customer")

	input.trim()
	if input.Name == "" {
		logCtx.WarnContext(ctx, "Validation failed: name is empty")
		return nil, errors.New("customer name cannot be empty")
	}
	logCtx.InfoContext(ctx, inputValidationPassed)

	cust, err := s.repo.FindByID(ctx, shopID, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logCtx.WarnContext(ctx, "Customer not found by repository for update")
			return nil, ErrNotFound
		}
		logCtx.ErrorContext(ctx, "Repository error finding customer for update", slog.Any("error", err))
		return nil, fmt.Errorf("cannot find customer %d to update: %w", customerID, err)
	}

	previousName := cust.Name
	renamed := !strings.EqualFold(previousName, input.Name)
	if renamed {
		s.warnOnRenameWithLoans(ctx, logCtx, shopID, previousName)
	}

	cust.Name = input.Name
	cust.Phone = input.Phone
	cust.Email = input.Email
	cust.Address = input.Address
	cust.City = input.City
	cust.Notes = input.Notes

	logCtx.InfoContext(ctx, "Calling repository Save to persist update")
	if err := s.repo.Save(ctx, cust); err != nil {
		logCtx.ErrorContext(ctx, "Repository failed to save updated customer", slog.Any("error", err))
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to save updated customer %d: %w", customerID, err)
	}

	updatedEvent := event.CustomerUpdatedEvent{
		Timestamp: time.Now(),
		Payload:   newCustomerEventPayload(cust),
	}
	if renamed {
		updatedEvent.PreviousName = previousName
	}
	if pubErr := s.pub.PublishCustomerUpdated(ctx, updatedEvent); pubErr != nil {
		logCtx.ErrorContext(ctx, "Customer updated, but FAILED to publish update event", slog.Any("error", pubErr))
	}

	logCtx.InfoContext(ctx, "Successfully updated customer")
	return cust, nil
}

// warnOnRenameWithLoans surfaces the name-association hazard: loans match
// customers by name, so a rename detaches any outstanding records.
func (s *customerService) warnOnRenameWithLoans(ctx context.Context, logCtx *slog.Logger, shopID int64, previousName string) {
	monitoring.Business.CustomerRenamesTotal.Inc()
	if s.loanSvc == nil {
		return
	}

	_, summary, err := s.loanSvc.OutstandingForCustomer(ctx, shopID, previousName)
	if err != nil {
		logCtx.WarnContext(ctx, "Could not check outstanding loans before rename", slog.Any("error", err))
		return
	}
	if summary.Count > 0 {
		logCtx.WarnContext(ctx, "Renaming customer with outstanding loans; loan records will no longer match",
			slog.String("previousName", previousName),
			slog.Int("outstandingLoans", summary.Count),
			slog.String("outstandingTotal", summary.Total.StringFixed(2)))
	}
}

func (s *customerService) DeleteCustomer(ctx context.Context, shopID, customerID int64) error {
	logCtx := s.logger.With(slog.Int64("shopID", shopID), slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Attempting to delete customer")

	cust, err := s.repo.FindByID(ctx, shopID, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logCtx.WarnContext(ctx, customerNotFound)
			return ErrNotFound
		}
		logCtx.ErrorContext(ctx, "Repository error finding customer for delete", slog.Any("error", err))
		return fmt.Errorf("cannot find customer %d to delete: %w", customerID, err)
	}

	logCtx.InfoContext(ctx, "Calling repository Delete")
	if err := s.repo.Delete(ctx, shopID, customerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			logCtx.WarnContext(ctx, "Customer disappeared before delete completed")
			return ErrNotFound
		}
		logCtx.ErrorContext(ctx, "Repository error deleting customer", slog.Any("error", err))
		return fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}
	monitoring.Business.CustomersDeletedTotal.Inc()

	deletedEvent := event.CustomerDeletedEvent{
		Timestamp: time.Now(),
		Payload:   newCustomerEventPayload(cust),
	}
	if pubErr := s.pub.PublishCustomerDeleted(ctx, deletedEvent); pubErr != nil {
		logCtx.ErrorContext(ctx, "Customer deleted, but FAILED to publish deletion event", slog.Any("error", pubErr))
	}

	logCtx.InfoContext(ctx, "Successfully deleted customer")
	return nil
}
