package tasks

import (
	"fmt"
	"strings"

	"dailyfocus/internal/storage"
	"dailyfocus/internal/validation"
)

// NewCategory is the input for AddCategory and UpdateCategory.
type NewCategory struct {
	Name  string `json:"name" validate:"required,max=30"`
	Color string `json:"color" validate:"required,hexcolor"`
	Icon  string `json:"icon" validate:"max=20"`
}

// DefaultCategories returns the seeded set.
func DefaultCategories() []storage.Category {
	return []storage.Category{
		{ID: "work", Name: "Work", Color: "#EF4444", Icon: "briefcase"},
		{ID: "personal", Name: "Personal", Color: "#10B981", Icon: "heart"},
		{ID: "home", Name: "Home", Color: "#3B82F6", Icon: "home"},
		{ID: "health", Name: "Health", Color: "#F59E0B", Icon: "dumbbell"},
		{ID: "learning", Name: "Learning", Color: "#8B5CF6", Icon: "book"},
	}
}

// IsDefault reports whether id belongs to a seeded category.
func IsDefault(id string) bool {
	for _, c := range DefaultCategories() {
		if c.ID == id {
			return true
		}
	}
	return false
}

// EnsureDefaults seeds the default set when list is empty.
func EnsureDefaults(list []storage.Category) []storage.Category {
	if len(list) > 0 {
		return list
	}
	return DefaultCategories()
}

// FindCategory looks a category up by id, falling back to a case-insensitive
// name match.
func FindCategory(list []storage.Category, ref string) (storage.Category, bool) {
	for _, c := range list {
		if c.ID == ref {
			return c, true
		}
	}
	for _, c := range list {
		if strings.EqualFold(c.Name, ref) {
			return c, true
		}
	}
	return storage.Category{}, false
}

// AddCategory validates in and appends a new category.
func AddCategory(list []storage.Category, in NewCategory, id string) ([]storage.Category, storage.Category, error) {
	in.Name = validation.SanitizeLine(in.Name)
	in.Icon = validation.SanitizeLine(in.Icon)
	if in.Icon == "" {
		in.Icon = "tag"
	}
	if err := validation.Struct(in); err != nil {
		return list, storage.Category{}, err
	}

	c := storage.Category{ID: id, Name: in.Name, Color: in.Color, Icon: in.Icon}
	out := make([]storage.Category, 0, len(list)+1)
	out = append(out, list...)
	out = append(out, c)
	return out, c, nil
}

// UpdateCategory replaces the display fields of a category. Tasks keep the
// copy they were created with.
func UpdateCategory(list []storage.Category, id string, in NewCategory) ([]storage.Category, storage.Category, error) {
	in.Name = validation.SanitizeLine(in.Name)
	in.Icon = validation.SanitizeLine(in.Icon)
	if err := validation.Struct(in); err != nil {
		return list, storage.Category{}, err
	}

	for i := range list {
		if list[i].ID == id {
			out := make([]storage.Category, len(list))
			copy(out, list)
			out[i] = storage.Category{ID: id, Name: in.Name, Color: in.Color, Icon: in.Icon}
			return out, out[i], nil
		}
	}
	return list, storage.Category{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
}

// DeleteCategory removes a user-defined category.
func DeleteCategory(list []storage.Category, id string) ([]storage.Category, storage.Category, error) {
	if IsDefault(id) {
		return list, storage.Category{}, ErrDefaultCategory
	}
	for i := range list {
		if list[i].ID == id {
			out := make([]storage.Category, 0, len(list)-1)
			out = append(out, list[:i]...)
			out = append(out, list[i+1:]...)
			return out, list[i], nil
		}
	}
	return list, storage.Category{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
}
