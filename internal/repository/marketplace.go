package repository

import (
	"context"

	"sudooom.community/internal/model"
)

// MarketplaceRepository 市场商品数据访问
type MarketplaceRepository struct {
	db DB
}

// NewMarketplaceRepository 创建商品仓库
func NewMarketplaceRepository(db DB) *MarketplaceRepository {
	return &MarketplaceRepository{db: db}
}

// Create 上架商品
func (r *MarketplaceRepository) Create(ctx context.Context, item *model.MarketplaceItem) error {
	query := `
		INSERT INTO marketplace_items (name, price, category, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		item.Name,
		item.Price,
		item.Category,
		item.UserID,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		switch code, _ := pgErrorCode(err); code {
		case pgForeignKeyViolation:
			return ErrUserNotFound
		case pgStringTooLong:
			return ErrValueTooLong
		}
		return err
	}
	return nil
}

// List 全部商品，按存储顺序
func (r *MarketplaceRepository) List(ctx context.Context) ([]*model.MarketplaceItemView, error) {
	query := `
		SELECT i.id, i.name, i.price, i.category, u.username
		FROM marketplace_items i
		JOIN users u ON u.id = i.user_id
		ORDER BY i.id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*model.MarketplaceItemView, 0)
	for rows.Next() {
		item := &model.MarketplaceItemView{}
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Price,
			&item.Category,
			&item.Seller,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
