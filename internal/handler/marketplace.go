package handler

import (
	"github.com/gin-gonic/gin"

	"sudooom.community/internal/middleware"
	"sudooom.community/internal/service"
	"sudooom.community/pkg/response"
)

// MarketplaceHandler 市场处理器
type MarketplaceHandler struct {
	marketplaceService *service.MarketplaceService
}

// NewMarketplaceHandler 创建市场处理器
func NewMarketplaceHandler(marketplaceService *service.MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{marketplaceService: marketplaceService}
}

// CreateItem 上架商品
// @Summary      上架商品
// @Tags         市场
// @Accept       json
// @Produce      json
// @Param        request body service.CreateItemRequest true "商品信息"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /marketplace/items [post]
func (h *MarketplaceHandler) CreateItem(c *gin.Context) {
	var req service.CreateItemRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.marketplaceService.CreateItem(c.Request.Context(), middleware.GetUserID(c), &req); err != nil {
		response.Fail(c, err)
		return
	}

	response.Created(c, "Item listed successfully", nil)
}

// ListItems 商品列表
// @Summary      商品列表
// @Tags         市场
// @Produce      json
// @Success      200  {array}  model.MarketplaceItemView
// @Router       /marketplace/items [get]
func (h *MarketplaceHandler) ListItems(c *gin.Context) {
	items, err := h.marketplaceService.ListItems(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.List(c, items)
}
