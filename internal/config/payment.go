package config

import (
	"fmt"
	"log"
	"os"

	razorpay "github.com/razorpay/razorpay-go"
	"go.uber.org/zap"
)

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
}

func NewRazorpayConfig() *RazorpayConfig {
	keyID := os.Getenv("RAZORPAY_KEY_ID")
	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	if keyID == "" || keySecret == "" {
		log.Fatal("Missing Razorpay environment variables")
	}
	return &RazorpayConfig{KeyID: keyID, KeySecret: keySecret}
}

type PaymentGateway struct {
	config *RazorpayConfig
	client *razorpay.Client
	logger *zap.Logger
}

func NewPaymentGateway(config *RazorpayConfig, logger *zap.Logger) *PaymentGateway {
	return &PaymentGateway{
		config: config,
		client: razorpay.NewClient(config.KeyID, config.KeySecret),
		logger: logger,
	}
}

// CreateOrder opens a gateway order. Amount is in the smallest currency unit
// (paise for INR).
func (g *PaymentGateway) CreateOrder(amount int64, currency, receipt string) (map[string]interface{}, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		g.logger.Error("Failed to create gateway order", zap.String("receipt", receipt), zap.Error(err))
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return order, nil
}

// Secret exposes the shared key used to verify payment signatures.
func (g *PaymentGateway) Secret() string {
	return g.config.KeySecret
}
