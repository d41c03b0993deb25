package trail

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chroniclehq/chronicle/pkg/filter"
)

// CategoryDescriptor describes one event category a deployment records.
type CategoryDescriptor struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// categoriesFile is the YAML layout of a category registry file.
type categoriesFile struct {
	Categories []CategoryDescriptor `yaml:"categories"`
}

// CategoryRegistry is the process-wide category registry: initialized once
// at startup, read-mostly afterwards. It implements filter.CategoryProvider.
type CategoryRegistry struct {
	categories []CategoryDescriptor
}

// NewCategoryRegistry builds a registry from descriptors.
func NewCategoryRegistry(categories ...CategoryDescriptor) *CategoryRegistry {
	return &CategoryRegistry{categories: categories}
}

// DefaultCategories are the categories recorded by the built-in event
// sources.
func DefaultCategories() []CategoryDescriptor {
	return []CategoryDescriptor{
		{Name: "Content", Description: "Content item lifecycle events"},
		{Name: "User", Description: "User account events"},
		{Name: "System", Description: "Internal system events"},
	}
}

// LoadCategories reads a category registry from a YAML file.
func LoadCategories(path string) (*CategoryRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories file: %w", err)
	}

	var file categoriesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse categories file: %w", err)
	}
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("categories file %s defines no categories", path)
	}

	return NewCategoryRegistry(file.Categories...), nil
}

// ListCategories implements filter.CategoryProvider.
func (r *CategoryRegistry) ListCategories(_ context.Context) ([]filter.Category, error) {
	out := make([]filter.Category, len(r.categories))
	for i, c := range r.categories {
		out[i] = filter.Category{Name: c.Name}
	}
	return out, nil
}

// Describe returns the full descriptors.
func (r *CategoryRegistry) Describe() []CategoryDescriptor {
	return r.categories
}
