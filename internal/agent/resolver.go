package agent

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vyapaar-backend/internal/cache"
	"vyapaar-backend/internal/model"
	"vyapaar-backend/internal/repository"
	"vyapaar-backend/pkg/logger"
)

// ResolveMode states the caller's intent explicitly instead of relying
// on an implicit code-path difference.
type ResolveMode int

const (
	// Strict fails with ErrProductNotFound on an unmatched name. Used
	// by the fallback path so a manually-typed order never silently
	// invents catalog entries.
	Strict ResolveMode = iota
	// AutoProvision creates a minimal product for an unmatched name.
	// Used for interpreter-sourced documents, which carry their own
	// pricing.
	AutoProvision
)

// Provisioning defaults for auto-created products. Stock starts
// generous so the first sale does not fail purely on stock.
var (
	defaultGSTRate = decimal.NewFromInt(18)
	defaultStock   = decimal.NewFromInt(1000)
)

// ItemHint carries whatever the caller knows about an unmatched item,
// used to seed an auto-provisioned product.
type ItemHint struct {
	Unit    string
	Rate    decimal.Decimal
	GSTRate decimal.Decimal
	HSNCode string
}

// CatalogResolver maps extracted item names onto catalog products.
type CatalogResolver struct {
	products repository.ProductRepository
	cache    cache.ProductCache
	log      zerolog.Logger
}

func NewCatalogResolver(products repository.ProductRepository, productCache cache.ProductCache) *CatalogResolver {
	return &CatalogResolver{
		products: products,
		cache:    productCache,
		log:      logger.WithComponent("catalog-resolver"),
	}
}

// Resolve finds the first product whose name contains the given
// fragment (case-insensitive). Resolution is idempotent: the same
// known name always comes back as the same product and never creates a
// duplicate.
func (r *CatalogResolver) Resolve(ctx context.Context, name string, mode ResolveMode, hint ItemHint) (*model.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ProductNotFoundError{Name: name}
	}

	if id, ok := r.cache.GetProductID(ctx, name); ok {
		if product, err := r.products.FindByID(id); err == nil {
			return product, nil
		}
		// Stale cache entry; fall through to the database.
		r.cache.Invalidate(ctx, name)
	}

	product, err := r.products.FindByNameLike(name)
	if err == nil {
		r.cache.SetProductID(ctx, name, product.ID)
		return product, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if mode == Strict {
		return nil, &ProductNotFoundError{Name: name}
	}

	return r.provision(ctx, name, hint)
}

func (r *CatalogResolver) provision(ctx context.Context, name string, hint ItemHint) (*model.Product, error) {
	unit := hint.Unit
	if unit == "" {
		unit = UnitCount
	}
	gstRate := hint.GSTRate
	if gstRate.IsZero() {
		gstRate = defaultGSTRate
	}

	product := &model.Product{
		Name:    name,
		HSNCode: hint.HSNCode,
		Unit:    unit,
		Price:   hint.Rate,
		GSTRate: gstRate,
		Stock:   defaultStock,
	}
	if err := r.products.Create(product); err != nil {
		return nil, err
	}

	r.log.Info().Str("name", name).Str("unit", unit).Msg("auto-provisioned catalog entry")
	r.cache.SetProductID(ctx, name, product.ID)
	return product, nil
}
