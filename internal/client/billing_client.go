package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"careform-api/internal/metrics"
)

// SubscriptionTier represents a billing plan
type SubscriptionTier string

const (
	TierFree       SubscriptionTier = "FREE"
	TierPro        SubscriptionTier = "PRO"
	TierEnterprise SubscriptionTier = "ENTERPRISE"
)

// Subscription holds the plan and usage limits for a business
type Subscription struct {
	Tier                   SubscriptionTier `json:"tier"`
	MaxForms               int              `json:"maxForms"`
	MaxMembers             int              `json:"maxMembers"`
	MaxClients             int              `json:"maxClients"`
	MaxSubmissionsPerMonth int              `json:"maxSubmissionsPerMonth"`
}

// DefaultFreeSubscription is the fallback plan used when the billing
// backend cannot be reached
func DefaultFreeSubscription() *Subscription {
	return &Subscription{
		Tier:                   TierFree,
		MaxForms:               3,
		MaxMembers:             3,
		MaxClients:             25,
		MaxSubmissionsPerMonth: 100,
	}
}

// CheckoutSession holds a hosted checkout URL for a plan upgrade
type CheckoutSession struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

// BillingClient defines the interface for billing backend communication
type BillingClient interface {
	// GetSubscription fetches the current plan and limits for a business
	GetSubscription(ctx context.Context, businessID uuid.UUID) (*Subscription, error)
	// CreateCheckoutSession starts a hosted checkout flow for a plan upgrade
	CreateCheckoutSession(ctx context.Context, businessID uuid.UUID, tier SubscriptionTier) (*CheckoutSession, error)
}

// billingClient implements BillingClient interface
type billingClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewBillingClient creates a new billing API client
func NewBillingClient(baseURL string, apiKey string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) BillingClient {
	return &billingClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

// GetSubscription fetches the subscription for a business. On transport
// failure it degrades to the free plan so serving traffic never depends
// on the billing backend being up.
func (c *billingClient) GetSubscription(ctx context.Context, businessID uuid.UUID) (*Subscription, error) {
	url := fmt.Sprintf("%s/api/internal/subscriptions/%s", c.baseURL, businessID)

	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Internal-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPICall(url, "GET", statusCode, duration, err)
	}

	if err != nil {
		c.logger.Warn("Billing backend unreachable, falling back to free plan",
			zap.Error(err),
			zap.String("business_id", businessID.String()),
			zap.Duration("duration", duration),
		)
		return DefaultFreeSubscription(), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Billing backend returned non-success status, falling back to free plan",
			zap.Int("status_code", resp.StatusCode),
			zap.String("business_id", businessID.String()),
		)
		return DefaultFreeSubscription(), nil
	}

	var sub Subscription
	if err := json.NewDecoder(resp.Body).Decode(&sub); err != nil {
		c.logger.Warn("Failed to decode billing response, falling back to free plan",
			zap.Error(err),
			zap.String("business_id", businessID.String()),
		)
		return DefaultFreeSubscription(), nil
	}

	return &sub, nil
}

// CreateCheckoutSession starts a hosted checkout flow. Unlike reads this
// does not degrade; a failed checkout must surface to the caller.
func (c *billingClient) CreateCheckoutSession(ctx context.Context, businessID uuid.UUID, tier SubscriptionTier) (*CheckoutSession, error) {
	url := fmt.Sprintf("%s/api/internal/checkout", c.baseURL)

	body, err := json.Marshal(map[string]string{
		"businessId": businessID.String(),
		"tier":       string(tier),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal checkout request: %w", err)
	}

	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPICall(url, "POST", statusCode, duration, err)
	}

	if err != nil {
		c.logger.Error("Failed to create checkout session",
			zap.Error(err),
			zap.String("business_id", businessID.String()),
			zap.Duration("duration", duration),
		)
		return nil, fmt.Errorf("billing backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("Billing backend rejected checkout request",
			zap.Int("status_code", resp.StatusCode),
			zap.String("business_id", businessID.String()),
		)
		return nil, fmt.Errorf("billing backend returned status %d", resp.StatusCode)
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout response: %w", err)
	}

	return &session, nil
}

// NoOpBillingClient is used when billing integration is disabled. Every
// business gets the enterprise plan with no limits enforced.
type NoOpBillingClient struct{}

func NewNoOpBillingClient() BillingClient {
	return &NoOpBillingClient{}
}

func (c *NoOpBillingClient) GetSubscription(ctx context.Context, businessID uuid.UUID) (*Subscription, error) {
	return &Subscription{
		Tier:                   TierEnterprise,
		MaxForms:               -1,
		MaxMembers:             -1,
		MaxClients:             -1,
		MaxSubmissionsPerMonth: -1,
	}, nil
}

func (c *NoOpBillingClient) CreateCheckoutSession(ctx context.Context, businessID uuid.UUID, tier SubscriptionTier) (*CheckoutSession, error) {
	return nil, fmt.Errorf("billing integration is disabled")
}
