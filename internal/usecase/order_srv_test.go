package usecase

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"sokoni/internal/data/entity"
	"sokoni/internal/dto/request"
)

func orderReq() *request.CreateFoodOrderRequest {
	return &request.CreateFoodOrderRequest{
		CookID: "cook-1",
		Items: []request.OrderItemRequest{
			{ItemID: "pilau", Name: "Pilau", Quantity: 2, Price: 300},
			{ItemID: "soda", Name: "Soda", Quantity: 1, Price: 100},
		},
	}
}

func TestCreateOrderTotals(t *testing.T) {
	repo := newTestRepo()
	svc := NewFoodOrderService(repo, zap.NewNop())

	resp, err := svc.CreateOrder(context.Background(), "customer-1", orderReq())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.TotalAmount != 700 {
		t.Fatalf("total = %v, want 700", resp.TotalAmount)
	}
	if resp.Status != string(entity.FoodOrderStatusPending) {
		t.Fatalf("status = %s, want pending", resp.Status)
	}
	if resp.PaymentReceived {
		t.Fatalf("new order already marked paid")
	}
	if !strings.HasPrefix(resp.OrderRef, "FD-") {
		t.Fatalf("order ref = %q, want FD- prefix", resp.OrderRef)
	}
}

func TestConfirmOrderPaymentAtomicFields(t *testing.T) {
	repo := newTestRepo()
	svc := NewFoodOrderService(repo, zap.NewNop())

	resp, err := svc.CreateOrder(context.Background(), "customer-1", orderReq())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = svc.ConfirmPayment(context.Background(), resp.ID, &request.ConfirmOrderPaymentRequest{PaymentMethod: "mpesa"})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}

	order, err := repo.FoodOrder.FindByID(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !order.PaymentReceived {
		t.Fatalf("paymentReceived not set")
	}
	if order.Status != entity.FoodOrderStatusPaymentReceived {
		t.Fatalf("status = %s, want payment_received", order.Status)
	}
	if order.PaymentConfirmedAt == nil {
		t.Fatalf("paymentConfirmedAt not set")
	}
	if order.PaymentMethod != "mpesa" {
		t.Fatalf("paymentMethod = %q", order.PaymentMethod)
	}

	// a repeat confirm is a no-op, not an error
	err = svc.ConfirmPayment(context.Background(), resp.ID, &request.ConfirmOrderPaymentRequest{PaymentMethod: "tigopesa"})
	if err != nil {
		t.Fatalf("repeat confirm: %v", err)
	}
	order, _ = repo.FoodOrder.FindByID(context.Background(), resp.ID)
	if order.PaymentMethod != "mpesa" {
		t.Fatalf("repeat confirm overwrote method: %q", order.PaymentMethod)
	}
}

func TestCancelOnlyPendingOrders(t *testing.T) {
	repo := newTestRepo()
	svc := NewFoodOrderService(repo, zap.NewNop())

	resp, err := svc.CreateOrder(context.Background(), "customer-1", orderReq())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// foreign customer cannot cancel
	if err := svc.CancelOrder(context.Background(), "customer-2", resp.ID); err == nil {
		t.Fatalf("foreign customer cancelled the order")
	}

	err = svc.ConfirmPayment(context.Background(), resp.ID, &request.ConfirmOrderPaymentRequest{PaymentMethod: "mpesa"})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if err := svc.CancelOrder(context.Background(), "customer-1", resp.ID); err == nil {
		t.Fatalf("cancelled a paid order")
	}
}

func TestCookStatusTransitions(t *testing.T) {
	repo := newTestRepo()
	svc := NewFoodOrderService(repo, zap.NewNop())

	resp, err := svc.CreateOrder(context.Background(), "customer-1", orderReq())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// delivered straight from pending is illegal
	if err := svc.UpdateStatus(context.Background(), "cook-1", resp.ID, entity.FoodOrderStatusDelivered); err == nil {
		t.Fatalf("pending order delivered directly")
	}

	if err := svc.UpdateStatus(context.Background(), "cook-1", resp.ID, entity.FoodOrderStatusPreparing); err != nil {
		t.Fatalf("preparing: %v", err)
	}
	if err := svc.UpdateStatus(context.Background(), "cook-1", resp.ID, entity.FoodOrderStatusDelivered); err != nil {
		t.Fatalf("delivered: %v", err)
	}

	// delivered is terminal
	if err := svc.UpdateStatus(context.Background(), "cook-1", resp.ID, entity.FoodOrderStatusPreparing); err == nil {
		t.Fatalf("delivered order moved back to preparing")
	}
}
