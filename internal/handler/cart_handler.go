package handler

import (
	"net/http"
	"strconv"

	"farmstore/internal/middleware"
	"farmstore/internal/repository"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	cartRepo    *repository.CartRepository
	productRepo *repository.ProductRepository
}

func NewCartHandler(cartRepo *repository.CartRepository, productRepo *repository.ProductRepository) *CartHandler {
	return &CartHandler{cartRepo: cartRepo, productRepo: productRepo}
}

func (h *CartHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	items, err := h.cartRepo.ListByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Put sets the quantity for a product; quantity 0 removes the line.
func (h *CartHandler) Put(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity == 0 {
		if err := h.cartRepo.Remove(userID, req.ProductID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": true})
		return
	}
	if _, err := h.productRepo.GetByID(req.ProductID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	item, err := h.cartRepo.Upsert(userID, req.ProductID, req.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CartHandler) Remove(c *gin.Context) {
	userID := middleware.GetUserID(c)
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	if err := h.cartRepo.Remove(userID, uint(productID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

func (h *CartHandler) Clear(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := h.cartRepo.Clear(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
