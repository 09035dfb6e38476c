package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"gorm.io/gorm"

	"github.com/eshop-dev/eshop-api/internal/apperr"
	"github.com/eshop-dev/eshop-api/internal/cache"
	"github.com/eshop-dev/eshop-api/internal/es"
	"github.com/eshop-dev/eshop-api/internal/models"
	"github.com/eshop-dev/eshop-api/internal/repo"
	"github.com/eshop-dev/eshop-api/internal/transport"
	"github.com/eshop-dev/eshop-api/internal/util"
)

// productListPrefix fronts every cached listing/search page.
const productListPrefix = "products::"

func productKey(id uint) string {
	return cache.Key("product", id)
}

// PublicProductService serves the catalog browse surface. Listing pages are
// cached per page/size/filter combination and evicted wholesale on any admin
// mutation.
type PublicProductService struct {
	products *repo.ProductRepo
	cache    cache.Cache
	search   *elasticsearch.Client
	ttl      time.Duration
}

func NewPublicProductService(products *repo.ProductRepo, c cache.Cache, search *elasticsearch.Client, ttl time.Duration) *PublicProductService {
	return &PublicProductService{products: products, cache: c, search: search, ttl: ttl}
}

func (s *PublicProductService) List(ctx context.Context, page, size int) (*transport.ProductListResponse, error) {
	offset, limit := util.Calculate(page, size)
	key := cache.Key("products", offset/limit+1, limit)

	var view transport.ProductListResponse
	err := s.cache.GetOrCompute(ctx, key, s.ttl, &view, func() (any, error) {
		items, total, err := s.products.List(ctx, offset, limit)
		if err != nil {
			return nil, err
		}
		return buildProductPage(items, total, offset, limit), nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *PublicProductService) GetByID(ctx context.Context, id uint) (*transport.ProductResponse, error) {
	var view transport.ProductResponse
	err := s.cache.GetOrCompute(ctx, productKey(id), s.ttl, &view, func() (any, error) {
		product, err := s.products.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("resource not found: %w", apperr.ErrNotFound)
			}
			return nil, err
		}
		return toProductResponse(product), nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// SearchByName queries Elasticsearch when a client is configured and falls
// back to a relational LIKE search otherwise.
func (s *PublicProductService) SearchByName(ctx context.Context, name string, page, size int) (*transport.ProductListResponse, error) {
	offset, limit := util.Calculate(page, size)
	key := cache.Key("products", offset/limit+1, limit, name)

	var view transport.ProductListResponse
	err := s.cache.GetOrCompute(ctx, key, s.ttl, &view, func() (any, error) {
		var (
			items []models.Product
			total int64
			err   error
		)
		if s.search != nil {
			total, items, err = es.SearchProducts(ctx, s.search, name, offset, limit)
		} else {
			items, total, err = s.products.SearchByName(ctx, name, offset, limit)
		}
		if err != nil {
			return nil, err
		}
		return buildProductPage(items, total, offset, limit), nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func buildProductPage(items []models.Product, total int64, offset, limit int) *transport.ProductListResponse {
	previews := make([]transport.ProductPreview, len(items))
	for i, p := range items {
		previews[i] = transport.ProductPreview{
			ID:     p.ID,
			Name:   p.Name,
			Price:  p.Price,
			Brand:  p.Brand,
			ImgURL: p.ImgURL,
		}
	}
	return &transport.ProductListResponse{
		Products: previews,
		Pagination: transport.PaginationResponse{
			CurrentPage: offset/limit + 1,
			TotalPage:   util.TotalPages(total, limit),
			TotalItems:  total,
			PageSize:    limit,
		},
	}
}

func toProductResponse(p *models.Product) *transport.ProductResponse {
	return &transport.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		Brand:       p.Brand,
		ImgURL:      p.ImgURL,
	}
}
