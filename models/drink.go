package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Ingredient is one component of a drink recipe
type Ingredient struct {
	Name  string `json:"name" validate:"required,max=80"`
	Color string `json:"color" validate:"required,max=40"`
	Parts int    `json:"parts" validate:"gte=1"`
}

// Recipe is stored as a JSON array in the drinks table
type Recipe []Ingredient

// Value implements driver.Valuer
func (r Recipe) Value() (driver.Value, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner
func (r *Recipe) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*r = Recipe{}
		return nil
	default:
		return fmt.Errorf("unsupported recipe type %T", src)
	}
	if err := json.Unmarshal(data, r); err != nil {
		return fmt.Errorf("failed to decode recipe: %w", err)
	}
	return nil
}

// UnmarshalJSON accepts either an array of ingredients or a single
// ingredient object
func (r *Recipe) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var one Ingredient
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return err
		}
		*r = Recipe{one}
		return nil
	}

	var many []Ingredient
	if err := json.Unmarshal(trimmed, &many); err != nil {
		return err
	}
	*r = many
	return nil
}

// Drink is a catalog item
type Drink struct {
	ID     int64  `json:"id" db:"id"`
	Title  string `json:"title" db:"title"`
	Recipe Recipe `json:"recipe" db:"recipe"`
}


// ShortIngredient is the public view of an ingredient: no names
type ShortIngredient struct {
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

// ShortDrink is the public representation of a drink
type ShortDrink struct {
	ID     int64             `json:"id"`
	Title  string            `json:"title"`
	Recipe []ShortIngredient `json:"recipe"`
}

// Short returns the public representation that hides ingredient names
func (d *Drink) Short() ShortDrink {
	recipe := make([]ShortIngredient, 0, len(d.Recipe))
	for _, ing := range d.Recipe {
		recipe = append(recipe, ShortIngredient{Color: ing.Color, Parts: ing.Parts})
	}
	return ShortDrink{ID: d.ID, Title: d.Title, Recipe: recipe}
}

// Long returns the full representation, including ingredient names
func (d *Drink) Long() Drink {
	recipe := make(Recipe, len(d.Recipe))
	copy(recipe, d.Recipe)
	return Drink{ID: d.ID, Title: d.Title, Recipe: recipe}
}

// ErrEmptyRecipe is returned by NewDrink for a recipe with no ingredients
var ErrEmptyRecipe = errors.New("recipe must contain at least one ingredient")

// NewDrink creates a new, unsaved Drink
func NewDrink(title string, recipe Recipe) (*Drink, error) {
	if title == "" {
		return nil, errors.New("title is required")
	}
	if len(recipe) == 0 {
		return nil, ErrEmptyRecipe
	}
	return &Drink{Title: title, Recipe: recipe}, nil
}

// SeedDrink is the drink inserted when the catalog is reset
func SeedDrink() *Drink {
	return &Drink{
		Title: "water",
		Recipe: Recipe{
			{Name: "water", Color: "blue", Parts: 1},
		},
	}
}
