package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/upb/coffee-shop/middleware"
	"github.com/upb/coffee-shop/models"
	"github.com/upb/coffee-shop/services/drinks"
	"github.com/upb/coffee-shop/utils"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// DrinkService defines the catalog operations the handler needs
type DrinkService interface {
	ListDrinks(ctx context.Context) ([]models.ShortDrink, error)
	ListDrinkDetails(ctx context.Context) ([]models.Drink, error)
	CreateDrink(ctx context.Context, req drinks.CreateDrinkRequest) (*models.Drink, error)
	UpdateDrink(ctx context.Context, id int64, req drinks.UpdateDrinkRequest) (*models.Drink, error)
	DeleteDrink(ctx context.Context, id int64) error
}

// DrinksResponse is returned by every endpoint that yields drinks
type DrinksResponse struct {
	Success bool        `json:"success"`
	Drinks  interface{} `json:"drinks"`
}

// DeleteResponse is returned by DELETE /drinks/{id}
type DeleteResponse struct {
	Success bool  `json:"success"`
	Delete  int64 `json:"delete"`
}

// DrinkHandler handles drink-related HTTP requests
type DrinkHandler struct {
	service DrinkService
	logger  *zap.Logger
}

// NewDrinkHandler creates a new DrinkHandler
func NewDrinkHandler(service DrinkService, logger *zap.Logger) *DrinkHandler {
	return &DrinkHandler{
		service: service,
		logger:  logger,
	}
}

// HandleListDrinks handles GET /drinks
func (h *DrinkHandler) HandleListDrinks(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListDrinks(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	h.writeDrinks(w, list)
}

// HandleListDrinkDetails handles GET /drinks-detail
func (h *DrinkHandler) HandleListDrinkDetails(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListDrinkDetails(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	h.writeDrinks(w, list)
}

// HandleCreateDrink handles POST /drinks
func (h *DrinkHandler) HandleCreateDrink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req drinks.CreateDrinkRequest
	if err := utils.DecodeAndValidate(http.MaxBytesReader(w, r.Body, maxBodyBytes), &req); err != nil {
		h.logger.Debug("rejected drink body",
			zap.String("request_id", middleware.GetRequestIDFromContext(ctx)),
			zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	drink, err := h.service.CreateDrink(ctx, req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("drink created via api",
		zap.String("request_id", middleware.GetRequestIDFromContext(ctx)),
		zap.String("sub", middleware.GetClaimsFromContext(ctx).Subject()),
		zap.Int64("drink_id", drink.ID))

	h.writeDrinks(w, []models.Drink{*drink})
}

// HandleUpdateDrink handles PATCH /drinks/{id}
func (h *DrinkHandler) HandleUpdateDrink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := drinkID(r)
	if !ok {
		_ = utils.WriteNotFound(w, "")
		return
	}

	var req drinks.UpdateDrinkRequest
	if err := utils.DecodeAndValidate(http.MaxBytesReader(w, r.Body, maxBodyBytes), &req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	drink, err := h.service.UpdateDrink(ctx, id, req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.writeDrinks(w, []models.Drink{*drink})
}

// HandleDeleteDrink handles DELETE /drinks/{id}
func (h *DrinkHandler) HandleDeleteDrink(w http.ResponseWriter, r *http.Request) {
	id, ok := drinkID(r)
	if !ok {
		_ = utils.WriteNotFound(w, "")
		return
	}

	if err := h.service.DeleteDrink(r.Context(), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if err := utils.WriteJSON(w, http.StatusOK, DeleteResponse{Success: true, Delete: id}); err != nil {
		h.logger.Error("failed to write delete response", zap.Error(err))
	}
}

func (h *DrinkHandler) writeDrinks(w http.ResponseWriter, list interface{}) {
	if err := utils.WriteJSON(w, http.StatusOK, DrinksResponse{Success: true, Drinks: list}); err != nil {
		h.logger.Error("failed to write drinks response", zap.Error(err))
	}
}

// drinkID parses the {id} path parameter. Anything but a positive integer
// addresses no drink.
func drinkID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
