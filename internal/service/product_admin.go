package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"
	"gorm.io/gorm"

	"github.com/eshop-dev/eshop-api/internal/apperr"
	"github.com/eshop-dev/eshop-api/internal/cache"
	"github.com/eshop-dev/eshop-api/internal/es"
	"github.com/eshop-dev/eshop-api/internal/logging"
	"github.com/eshop-dev/eshop-api/internal/models"
	"github.com/eshop-dev/eshop-api/internal/repo"
	"github.com/eshop-dev/eshop-api/internal/transport"
)

// AdminProductService mutates the catalog. Each mutation evicts the affected
// per-entity cache entry and the listing pages wholesale, then keeps the
// search index in step (best effort; an index failure never fails the write).
type AdminProductService struct {
	products *repo.ProductRepo
	cache    cache.Cache
	search   *elasticsearch.Client
}

func NewAdminProductService(products *repo.ProductRepo, c cache.Cache, search *elasticsearch.Client) *AdminProductService {
	return &AdminProductService{products: products, cache: c, search: search}
}

func (s *AdminProductService) Create(ctx context.Context, req transport.CreateProductRequest) (*transport.ProductResponse, error) {
	exists, err := s.products.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("product name already exists: %w", apperr.ErrAlreadyExists)
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		Brand:       req.Brand,
		ImgURL:      req.ImgURL,
	}
	if err := s.products.Create(ctx, &product); err != nil {
		return nil, err
	}

	s.evictListings(ctx)
	s.index(ctx, product)
	return toProductResponse(&product), nil
}

func (s *AdminProductService) Update(ctx context.Context, id uint, req transport.UpdateProductRequest) (*transport.ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != product.Name {
		exists, err := s.products.ExistsByName(ctx, *req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("product name already exists: %w", apperr.ErrAlreadyExists)
		}
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.ImgURL != nil {
		product.ImgURL = *req.ImgURL
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.evictProduct(ctx, id)
	s.index(ctx, *product)
	return toProductResponse(product), nil
}

// UpdateStock adds the requested amount to the current stock.
func (s *AdminProductService) UpdateStock(ctx context.Context, id uint, req transport.StockRequest) (*transport.StockResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Stock += req.Stock
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.evictProduct(ctx, id)
	return &transport.StockResponse{Stock: product.Stock}, nil
}

func (s *AdminProductService) Remove(ctx context.Context, id uint) error {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.products.SoftDelete(ctx, product); err != nil {
		return err
	}

	s.evictProduct(ctx, id)
	if s.search != nil {
		if err := es.DeleteProduct(ctx, s.search, id); err != nil {
			logging.FromContext(ctx).Warn("es_delete_error", "product_id", id, "error", err)
		}
	}
	return nil
}

func (s *AdminProductService) StockInfo(ctx context.Context, id uint) (*transport.StockInfo, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return &transport.StockInfo{ID: product.ID, Name: product.Name, Stock: product.Stock}, nil
}

func (s *AdminProductService) findProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with id %d not found: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

func (s *AdminProductService) evictProduct(ctx context.Context, id uint) {
	if err := s.cache.Evict(ctx, productKey(id)); err != nil {
		logging.FromContext(ctx).Warn("cache_evict_error", "product_id", id, "error", err)
	}
	s.evictListings(ctx)
}

func (s *AdminProductService) evictListings(ctx context.Context) {
	if err := s.cache.EvictPrefix(ctx, productListPrefix); err != nil {
		logging.FromContext(ctx).Warn("cache_evict_error", "prefix", productListPrefix, "error", err)
	}
}

func (s *AdminProductService) index(ctx context.Context, product models.Product) {
	if s.search == nil {
		return
	}
	if err := es.IndexProduct(ctx, s.search, product); err != nil {
		logging.FromContext(ctx).Warn("es_index_error", "product_id", product.ID, "error", err)
	}
}
