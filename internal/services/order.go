package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/team-izakaya/menugraph-backend/internal/platform/apierr"
	"github.com/team-izakaya/menugraph-backend/internal/platform/logger"
)

// GraphOrderWriter records orders as ORDERED edges.
type GraphOrderWriter interface {
	RecordOrder(ctx context.Context, userID uint, menuName string) error
}

type OrderService interface {
	Record(ctx context.Context, userID uint, username, menuName string) error
}

type orderService struct {
	log   *logger.Logger
	graph GraphOrderWriter
}

func NewOrderService(log *logger.Logger, graph GraphOrderWriter) OrderService {
	return &orderService{
		log:   log.With("service", "OrderService"),
		graph: graph,
	}
}

func (os *orderService) Record(ctx context.Context, userID uint, username, menuName string) error {
	menuName = strings.TrimSpace(menuName)
	if menuName == "" {
		return apierr.New(http.StatusBadRequest, "invalid_menu_name", fmt.Errorf("menu name required"))
	}
	if err := os.graph.RecordOrder(ctx, userID, menuName); err != nil {
		return apierr.New(http.StatusServiceUnavailable, apierr.CodeGraphUnavailable, err)
	}
	os.log.Info("Order recorded", "username", username, "menu", menuName)
	return nil
}
