package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/team-izakaya/menugraph-backend/internal/platform/apierr"
	"github.com/team-izakaya/menugraph-backend/internal/platform/logger"
)

type fakeOrderWriter struct {
	orders []string
	err    error
}

func (f *fakeOrderWriter) RecordOrder(ctx context.Context, userID uint, menuName string) error {
	f.orders = append(f.orders, menuName)
	return f.err
}

func testOrderService(t *testing.T, graph *fakeOrderWriter) OrderService {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewOrderService(log, graph)
}

func TestOrderRecordTrimsMenuName(t *testing.T) {
	graph := &fakeOrderWriter{}
	svc := testOrderService(t, graph)

	if err := svc.Record(context.Background(), 1, "kim", "  가라아게 "); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(graph.orders) != 1 || graph.orders[0] != "가라아게" {
		t.Fatalf("recorded: got=%v", graph.orders)
	}
}

func TestOrderRecordRejectsEmptyMenu(t *testing.T) {
	svc := testOrderService(t, &fakeOrderWriter{})

	err := svc.Record(context.Background(), 1, "kim", "   ")
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestOrderRecordGraphUnavailable(t *testing.T) {
	svc := testOrderService(t, &fakeOrderWriter{err: errors.New("connection refused")})

	err := svc.Record(context.Background(), 1, "kim", "가라아게")
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Code != apierr.CodeGraphUnavailable {
		t.Fatalf("expected graph_unavailable, got %v", err)
	}
}
