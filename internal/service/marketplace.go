package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"sudooom.community/internal/model"
	"sudooom.community/internal/repository"
	appErrors "sudooom.community/pkg/errors"
)

// MarketplaceRepository 商品存储
type MarketplaceRepository interface {
	Create(ctx context.Context, item *model.MarketplaceItem) error
	List(ctx context.Context) ([]*model.MarketplaceItemView, error)
}

// CreateItemRequest 上架请求，price 可以是数字或数字字符串
type CreateItemRequest struct {
	Name     string `json:"name"`
	Price    any    `json:"price"`
	Category string `json:"category"`
}

var (
	errItemFieldsRequired = appErrors.ErrValidation.WithMessage("All fields required")
	errPriceNotNumeric    = appErrors.ErrValidation.WithMessage("Price must be a number")
)

// MarketplaceService 市场服务
type MarketplaceService struct {
	itemRepo MarketplaceRepository
	logger   *slog.Logger
}

// NewMarketplaceService 创建市场服务
func NewMarketplaceService(itemRepo MarketplaceRepository) *MarketplaceService {
	return &MarketplaceService{
		itemRepo: itemRepo,
		logger:   slog.Default().With("service", "marketplace"),
	}
}

// CreateItem 上架商品
func (s *MarketplaceService) CreateItem(ctx context.Context, sellerID int64, req *CreateItemRequest) (*model.MarketplaceItem, error) {
	if req.Name == "" || req.Category == "" {
		return nil, errItemFieldsRequired
	}
	if err := checkLength("Name", req.Name, maxItemNameLen); err != nil {
		return nil, err
	}
	if err := checkLength("Category", req.Category, maxCategoryLen); err != nil {
		return nil, err
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	item := &model.MarketplaceItem{
		Name:     req.Name,
		Price:    price,
		Category: req.Category,
		UserID:   sellerID,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		if errors.Is(err, repository.ErrValueTooLong) {
			return nil, appErrors.ErrValidation.WithMessage("Field too long")
		}
		s.logger.Error("Failed to create item", "userId", sellerID, "error", err)
		return nil, appErrors.ErrStorage.Wrap(err)
	}
	return item, nil
}

// ListItems 全部商品
func (s *MarketplaceService) ListItems(ctx context.Context) ([]*model.MarketplaceItemView, error) {
	items, err := s.itemRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list items", "error", err)
		return nil, appErrors.ErrStorage.Wrap(err)
	}
	return items, nil
}

// parsePrice 把 JSON 中的 price 转为 float64
// 缺失、空字符串与 0 视为未填写
func parsePrice(raw any) (float64, error) {
	var price float64
	switch v := raw.(type) {
	case nil:
		return 0, errItemFieldsRequired
	case float64:
		price = v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, errPriceNotNumeric
		}
		price = f
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, errItemFieldsRequired
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errPriceNotNumeric
		}
		price = f
	default:
		return 0, errPriceNotNumeric
	}

	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, errPriceNotNumeric
	}
	if price == 0 {
		return 0, errItemFieldsRequired
	}
	return price, nil
}
