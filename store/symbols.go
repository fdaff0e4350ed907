package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/quantdata/marketsync/models"
)

// Symbols is the engine's read-only view of the symbol registry.
type Symbols struct {
	db *gorm.DB
}

func NewSymbols(db *gorm.DB) *Symbols {
	return &Symbols{db: db}
}

// ActiveSymbols lists the tracked symbols for a market.
func (s *Symbols) ActiveSymbols(ctx context.Context, market string) ([]models.Symbol, error) {
	var symbols []models.Symbol
	err := s.db.WithContext(ctx).
		Where("market_code = ? AND active", market).
		Order("ticker").
		Find(&symbols).Error
	if err != nil {
		return nil, fmt.Errorf("load active symbols for %s: %w", market, err)
	}
	return symbols, nil
}
