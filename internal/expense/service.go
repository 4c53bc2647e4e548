package expense

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/core/events"
)

// Repository is the storage contract shared by the memory and relational backends.
type Repository interface {
	List(ctx context.Context) ([]*Expense, error)
	GetByID(ctx context.Context, id int64) (*Expense, error)
	Create(ctx context.Context, expense *Expense) error
	Update(ctx context.Context, id int64, patch Patch) (*Expense, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type EventPublisher interface {
	PublishSync(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      Repository
	publisher EventPublisher
	logger    *slog.Logger
	timeout   time.Duration
	now       func() time.Time
}

type Option func(*Service)

// WithTimeout bounds every repository call.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithClock replaces time.Now as the default creation date.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService wires the expense use cases. publisher may be nil.
func NewService(repo Repository, publisher EventPublisher, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		timeout:   errors.DefaultOperationTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ListExpenses(ctx context.Context, categoryName string) ([]*Expense, error) {
	if err := validateFilter(categoryName); err != nil {
		return nil, err
	}

	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	expenses, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err)
		return nil, errors.NewInternalError("Failed to list expenses", err)
	}

	return Filter(expenses, categoryName), nil
}

func (s *Service) GetExpense(ctx context.Context, id int64) (*Expense, error) {
	if id <= 0 {
		return nil, errors.ErrInvalidExpenseID
	}

	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	expense, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storageError("get", id, err)
	}
	return expense, nil
}

func (s *Service) CreateExpense(ctx context.Context, input map[string]interface{}) (*Expense, error) {
	dto, err := ParseCreateExpense(input, s.now())
	if err != nil {
		s.logger.Warn("expense validation failed", "error", err)
		return nil, err
	}

	expense := NewExpense(*dto)

	repoCtx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.repo.Create(repoCtx, expense); err != nil {
		s.logger.Error("failed to create expense", "error", err)
		return nil, errors.NewInternalError("Failed to create expense", err)
	}

	s.logger.Info("expense created successfully",
		"expense_id", expense.ID,
		"amount", expense.Amount.StringFixed(2),
		"category", expense.Category)

	s.publish(ctx, events.NewExpenseCreatedEvent(snapshot(expense)))
	return expense, nil
}

func (s *Service) UpdateExpense(ctx context.Context, id int64, input map[string]interface{}) (*Expense, error) {
	if id <= 0 {
		return nil, errors.ErrInvalidExpenseID
	}

	patch, err := ParsePatch(input)
	if err != nil {
		s.logger.Warn("expense patch validation failed", "error", err, "expense_id", id)
		return nil, err
	}

	repoCtx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	expense, err := s.repo.Update(repoCtx, id, patch)
	if err != nil {
		return nil, s.storageError("update", id, err)
	}

	if patch.IsEmpty() {
		return expense, nil
	}

	s.logger.Info("expense updated successfully", "expense_id", id)
	s.publish(ctx, events.NewExpenseUpdatedEvent(snapshot(expense)))
	return expense, nil
}

func (s *Service) DeleteExpense(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.ErrInvalidExpenseID
	}

	repoCtx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	deleted, err := s.repo.Delete(repoCtx, id)
	if err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id)
		return errors.NewInternalError("Failed to delete expense", err)
	}
	if !deleted {
		return errors.ErrExpenseNotFound
	}

	s.logger.Info("expense deleted successfully", "expense_id", id)
	s.publish(ctx, events.NewExpenseDeletedEvent(id))
	return nil
}

func (s *Service) Summarize(ctx context.Context, categoryName string) (Summary, error) {
	if err := validateFilter(categoryName); err != nil {
		return Summary{}, err
	}

	ctx, cancel := errors.WithTimeout(ctx, s.timeout)
	defer cancel()

	expenses, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list expenses for summary", "error", err)
		return Summary{}, errors.NewInternalError("Failed to summarize expenses", err)
	}

	return Summarize(expenses, categoryName), nil
}

// ClearExpenses deletes every stored expense and reports how many were removed.
func (s *Service) ClearExpenses(ctx context.Context) (int, error) {
	expenses, err := s.ListExpenses(ctx, "")
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, e := range expenses {
		if err := s.DeleteExpense(ctx, e.ID); err != nil {
			return removed, fmt.Errorf("delete expense %d: %w", e.ID, err)
		}
		removed++
	}
	return removed, nil
}

func (s *Service) storageError(op string, id int64, err error) error {
	if appErr, ok := errors.IsAppError(err); ok {
		return appErr
	}
	s.logger.Error("expense storage failure", "op", op, "error", err, "expense_id", id)
	return errors.NewInternalError(fmt.Sprintf("Failed to %s expense", op), err)
}

// publish never fails the request; a broken subscriber is only logged.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSync(ctx, event); err != nil {
		s.logger.Error("failed to publish expense event",
			"error", err,
			"event_type", event.EventType(),
			"event_id", event.EventID())
	}
}

func validateFilter(name string) error {
	if name == "" || category.IsValid(name) {
		return nil
	}
	return errors.NewValidationFieldError("category", fmt.Sprintf("unknown category %q", name), errors.ErrCodeInvalidCategory)
}

func snapshot(e *Expense) events.ExpenseSnapshot {
	return events.ExpenseSnapshot{
		ID:          e.ID,
		Amount:      e.Amount.StringFixed(2),
		Category:    e.Category,
		Date:        e.Date,
		Description: copyString(e.Description),
	}
}
