package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Strizzyy/care-engine/internal/config"
	"github.com/Strizzyy/care-engine/internal/domain"
	"github.com/Strizzyy/care-engine/internal/repository/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.EnsureSchema(db); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create schema: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	customers := []struct {
		id, name, email, phone, membership, location string
		balance                                      float64
	}{
		{"WM001", "Priya Sharma", "priya.sharma@example.com", "+91-98765-43210", "premium", "Mumbai", 500},
		{"WM002", "Rahul Verma", "rahul.verma@example.com", "+91-98765-43211", "standard", "Delhi", 150},
		{"WM003", "Anita Desai", "anita.desai@example.com", "+91-98765-43212", "premium", "Bengaluru", 1200},
	}
	for _, c := range customers {
		_, err := db.ExecContext(ctx, `
			INSERT INTO customers (customer_id, name, email, phone, membership, wallet_balance, location)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (customer_id) DO UPDATE SET wallet_balance = EXCLUDED.wallet_balance
		`, c.id, c.name, c.email, c.phone, c.membership, c.balance, c.location)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to seed customer %s: %v\n", c.id, err)
			os.Exit(1)
		}
	}

	orders := []domain.Order{
		{OrderID: "ORD007", CustomerID: "WM001", Status: domain.OrderStatusDelivered, TotalAmount: 250, OrderDate: "2025-07-20", ExpectedDelivery: "2025-07-22"},
		{OrderID: "ORD008", CustomerID: "WM001", Status: domain.OrderStatusCancelled, TotalAmount: 99, OrderDate: "2025-07-25", ExpectedDelivery: "2025-07-28"},
		{OrderID: "ORD010", CustomerID: "WM002", Status: domain.OrderStatusShipped, TotalAmount: 420, OrderDate: "2025-08-01", ExpectedDelivery: "2025-08-05"},
		{OrderID: "ORD011", CustomerID: "WM003", Status: domain.OrderStatusDelivered, TotalAmount: 780, OrderDate: "2025-08-03", ExpectedDelivery: "2025-08-06"},
	}
	for _, o := range orders {
		_, err := db.ExecContext(ctx, `
			INSERT INTO orders (order_id, customer_id, status, total_amount, order_date, expected_delivery)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (order_id) DO NOTHING
		`, o.OrderID, o.CustomerID, o.Status, o.TotalAmount, o.OrderDate, o.ExpectedDelivery)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to seed order %s: %v\n", o.OrderID, err)
			os.Exit(1)
		}
	}

	payments := []struct {
		id, orderID, customerID, status string
		amount                          float64
	}{
		{"PAY007", "ORD007", "WM001", "pending", 250},
		{"PAY008", "ORD008", "WM001", "refunded", 99},
		{"PAY010", "ORD010", "WM002", "failed", 420},
		{"PAY011", "ORD011", "WM003", "completed", 780},
	}
	for _, p := range payments {
		_, err := db.ExecContext(ctx, `
			INSERT INTO payments (payment_id, order_id, customer_id, status, amount)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (payment_id) DO NOTHING
		`, p.id, p.orderID, p.customerID, p.status, p.amount)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to seed payment %s: %v\n", p.id, err)
			os.Exit(1)
		}
	}

	fmt.Println("Data population completed!")
}
