package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/team-izakaya/menugraph-backend/internal/middleware"
	"github.com/team-izakaya/menugraph-backend/internal/services"
)

type OrderHandler struct {
	orderService services.OrderService
}

func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (oh *OrderHandler) Create(c *gin.Context) {
	userID, username, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var req struct {
		MenuName string `json:"menu_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := oh.orderService.Record(c.Request.Context(), userID, username, req.MenuName); err != nil {
		RespondServiceError(c, err)
		return
	}

	RespondOK(c, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("'%s' 주문이 그래프에 기록되었습니다.", req.MenuName),
		"user":    username,
	})
}
