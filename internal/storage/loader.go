package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/denisok6893-rgb/property-call-search/internal/domain"
)

// LoadPropertiesFromFile reads properties from JSON file and returns a slice of Property.
func LoadPropertiesFromFile(path string) ([]domain.Property, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read properties file: %w", err)
	}

	var props []domain.Property
	if err := json.Unmarshal(b, &props); err != nil {
		return nil, fmt.Errorf("unmarshal properties: %w", err)
	}
	return props, nil
}

// MemoryInventory serves a fixed snapshot of properties.
type MemoryInventory struct {
	props []domain.Property
}

func NewMemoryInventory(props []domain.Property) *MemoryInventory {
	return &MemoryInventory{props: slices.Clone(props)}
}

func (m *MemoryInventory) GetAllProperties(ctx context.Context) ([]domain.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(m.props), nil
}

func (m *MemoryInventory) GetProperty(ctx context.Context, id string) (domain.Property, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Property{}, false, err
	}
	for _, p := range m.props {
		if p.ID == id {
			return p, true, nil
		}
	}
	return domain.Property{}, false, nil
}

// ListProperties returns one page of the snapshot and the total count.
func (m *MemoryInventory) ListProperties(ctx context.Context, limit, offset int) ([]domain.Property, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	total := len(m.props)
	start, end := pageBounds(total, limit, offset)
	return slices.Clone(m.props[start:end]), total, nil
}

func pageBounds(total, limit, offset int) (int, int) {
	start := min(max(offset, 0), total)
	end := total
	if limit > 0 {
		end = min(start+limit, total)
	}
	return start, end
}
