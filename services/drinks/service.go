package drinks

import (
	"context"
	"errors"
	"strings"

	"github.com/upb/coffee-shop/metrics"
	"github.com/upb/coffee-shop/models"
	"github.com/upb/coffee-shop/repositories"
	"github.com/upb/coffee-shop/services"
	"go.uber.org/zap"
)

// DrinkService handles the drink catalog
type DrinkService struct {
	repo   repositories.DrinkRepository
	txMgr  repositories.TransactionManager
	logger *zap.Logger
}

// NewDrinkService creates a new DrinkService instance
func NewDrinkService(repo repositories.DrinkRepository, txMgr repositories.TransactionManager, logger *zap.Logger) *DrinkService {
	return &DrinkService{
		repo:   repo,
		txMgr:  txMgr,
		logger: logger,
	}
}

// ListDrinks returns the public view of every drink
func (s *DrinkService) ListDrinks(ctx context.Context) (_ []models.ShortDrink, err error) {
	defer record("list", &err)

	drinks, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.mapRepoError("list drinks", err)
	}

	out := make([]models.ShortDrink, 0, len(drinks))
	for _, d := range drinks {
		out = append(out, d.Short())
	}
	return out, nil
}

// ListDrinkDetails returns every drink including ingredient names
func (s *DrinkService) ListDrinkDetails(ctx context.Context) (_ []models.Drink, err error) {
	defer record("list_detail", &err)

	drinks, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.mapRepoError("list drinks", err)
	}

	out := make([]models.Drink, 0, len(drinks))
	for _, d := range drinks {
		out = append(out, d.Long())
	}
	return out, nil
}

// CreateDrink stores a new drink. Titles are unique.
func (s *DrinkService) CreateDrink(ctx context.Context, req CreateDrinkRequest) (_ *models.Drink, err error) {
	defer record("create", &err)

	drink, err := models.NewDrink(strings.TrimSpace(req.Title), req.Recipe)
	if err != nil {
		if errors.Is(err, models.ErrEmptyRecipe) {
			return nil, services.ErrEmptyRecipe
		}
		return nil, services.NewDomainError(services.ErrorTypeValidation, err.Error(), err)
	}

	if err := s.repo.Create(ctx, drink); err != nil {
		return nil, s.mapRepoError("create drink", err)
	}

	s.logger.Info("drink created",
		zap.Int64("drink_id", drink.ID),
		zap.String("title", drink.Title))

	long := drink.Long()
	return &long, nil
}

// UpdateDrink changes the title and/or recipe of an existing drink. The row
// is locked while it is read and rewritten.
func (s *DrinkService) UpdateDrink(ctx context.Context, id int64, req UpdateDrinkRequest) (_ *models.Drink, err error) {
	defer record("update", &err)

	if req.Empty() {
		return nil, services.ErrNothingToUpdate
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "title must not be blank", nil).
			WithDetail("title", "title must not be blank")
	}
	if req.Recipe != nil && len(*req.Recipe) == 0 {
		return nil, services.ErrEmptyRecipe
	}

	drink, err := services.WithTransactionResult(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) (*models.Drink, error) {
		drink, err := s.repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}

		if req.Title != nil {
			drink.Title = strings.TrimSpace(*req.Title)
		}
		if req.Recipe != nil {
			drink.Recipe = *req.Recipe
		}

		if err := s.repo.Update(ctx, drink); err != nil {
			return nil, err
		}
		return drink, nil
	})
	if err != nil {
		return nil, s.mapRepoError("update drink", err)
	}

	s.logger.Info("drink updated", zap.Int64("drink_id", id))

	long := drink.Long()
	return &long, nil
}

// DeleteDrink removes a drink
func (s *DrinkService) DeleteDrink(ctx context.Context, id int64) (err error) {
	defer record("delete", &err)

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError("delete drink", err)
	}

	s.logger.Info("drink deleted", zap.Int64("drink_id", id))
	return nil
}

// mapRepoError converts repository errors into domain errors
func (s *DrinkService) mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return services.NewDomainError(services.ErrorTypeNotFound, "drink not found", err)
	case errors.Is(err, repositories.ErrDuplicate):
		return services.NewDomainError(services.ErrorTypeConflict, "a drink with this title already exists", err).
			WithDetail("title", "title already exists")
	default:
		s.logger.Error("drink storage failure", zap.String("operation", op), zap.Error(err))
		return services.WrapInternal("failed to "+op, err)
	}
}

func record(op string, err *error) {
	status := "ok"
	if *err != nil {
		status = string(services.GetErrorType(*err))
		if status == "" {
			status = string(services.ErrorTypeInternal)
		}
	}
	metrics.DrinkOperationsTotal.WithLabelValues(op, status).Inc()
}
