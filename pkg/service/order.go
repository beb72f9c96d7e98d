package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/example/gourmet/pkg/config"
	"github.com/example/gourmet/pkg/models"
	"github.com/example/gourmet/pkg/repository"
	"go.uber.org/zap"
)

// IdempotencyStore remembers which order an Idempotency-Key produced.
type IdempotencyStore interface {
	ClaimIdempotencyKey(ctx context.Context, key string, ttl time.Duration) (bool, error)
	IdempotentResult(ctx context.Context, key string) (string, error)
	CompleteIdempotencyKey(ctx context.Context, key, orderID string, ttl time.Duration) error
	ReleaseIdempotencyKey(ctx context.Context, key string) error
}

// OrderNotifier is told about every placed order. It must not block.
type OrderNotifier interface {
	OrderPlaced(order *models.Order, user *models.User)
}

type OrderItemInput struct {
	MenuItemID string   `json:"menuItemId"`
	Name       string   `json:"name"`
	Price      *float64 `json:"price"`
	Quantity   int      `json:"quantity"`
	Image      string   `json:"image"`
}

type CreateOrderInput struct {
	Items         []OrderItemInput `json:"items"`
	PaymentMethod string           `json:"paymentMethod"`
	Subtotal      *float64         `json:"subtotal"`
	Tax           *float64         `json:"tax"`
	Total         *float64         `json:"total"`
}

type OrderService struct {
	orders   repository.OrderRepository
	menu     repository.MenuRepository
	audit    repository.AuditRepository
	idem     IdempotencyStore
	notifier OrderNotifier
	cfg      config.OrdersConfig
	numbers  func(time.Time) string
	now      func() time.Time
	logger   *zap.Logger
}

func NewOrderService(orders repository.OrderRepository, menu repository.MenuRepository, audit repository.AuditRepository, cfg config.OrdersConfig, logger *zap.Logger) *OrderService {
	if cfg.Pricing == "" {
		cfg.Pricing = config.PricingTrust
	}
	if cfg.NumberAttempts <= 0 {
		cfg.NumberAttempts = 5
	}
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 24 * time.Hour
	}
	return &OrderService{
		orders:  orders,
		menu:    menu,
		audit:   audit,
		cfg:     cfg,
		numbers: NewOrderNumber,
		now:     func() time.Time { return time.Now().UTC() },
		logger:  logger.Named("orders"),
	}
}

func (s *OrderService) WithIdempotency(store IdempotencyStore) *OrderService {
	s.idem = store
	return s
}

func (s *OrderService) WithNotifier(n OrderNotifier) *OrderService {
	s.notifier = n
	return s
}

// Create places an order for user. When idempotencyKey was already used by
// the same user, the earlier order is returned and replayed is true.
func (s *OrderService) Create(ctx context.Context, user *models.User, in CreateOrderInput, idempotencyKey string) (order *models.Order, replayed bool, err error) {
	if err := s.validate(in); err != nil {
		return nil, false, err
	}

	key := strings.TrimSpace(idempotencyKey)
	if key != "" && s.idem != nil {
		key = user.ID + ":" + key
		prior, held, err := s.claim(ctx, user.ID, key)
		if err != nil {
			return nil, false, err
		}
		if prior != nil {
			return prior, true, nil
		}
		if held {
			defer func() {
				s.settle(key, order, err)
			}()
		}
	}

	order, err = s.build(ctx, user, in)
	if err != nil {
		return nil, false, err
	}

	if err := s.insert(ctx, order); err != nil {
		return nil, false, err
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", user.ID),
		zap.Int("item_count", len(order.Items)),
		zap.Float64("total", order.Total))

	if s.audit != nil {
		err := s.audit.CreateAuditLog(ctx, &repository.AuditLog{
			Service:  "orders",
			Action:   "create",
			EntityID: order.ID,
			Data: map[string]interface{}{
				"user":        user.ID,
				"orderNumber": order.OrderNumber,
				"total":       order.Total,
			},
		})
		if err != nil {
			s.logger.Warn("Failed to write audit log", zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	if s.notifier != nil {
		s.notifier.OrderPlaced(order, user)
	}

	return order, false, nil
}

// claim returns the earlier order for a replayed key, or reports whether this
// request now holds the key. Redis failures degrade to no idempotency.
func (s *OrderService) claim(ctx context.Context, userID, key string) (*models.Order, bool, error) {
	claimed, err := s.idem.ClaimIdempotencyKey(ctx, key, s.cfg.IdempotencyTTL)
	if err != nil {
		s.logger.Warn("Idempotency claim failed", zap.String("key", key), zap.Error(err))
		return nil, false, nil
	}
	if claimed {
		return nil, true, nil
	}

	orderID, err := s.idem.IdempotentResult(ctx, key)
	if err != nil && !errors.Is(err, repository.ErrCacheMiss) {
		return nil, false, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	if orderID == "" {
		return nil, false, Conflict("A request with this Idempotency-Key is already in progress", nil)
	}

	order, err := s.orders.GetOrderForUser(ctx, orderID, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load replayed order: %w", err)
	}
	return order, false, nil
}

func (s *OrderService) settle(key string, order *models.Order, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err != nil || order == nil {
		if rerr := s.idem.ReleaseIdempotencyKey(ctx, key); rerr != nil {
			s.logger.Warn("Idempotency release failed", zap.String("key", key), zap.Error(rerr))
		}
		return
	}
	if cerr := s.idem.CompleteIdempotencyKey(ctx, key, order.ID, s.cfg.IdempotencyTTL); cerr != nil {
		s.logger.Warn("Idempotency completion failed", zap.String("key", key), zap.Error(cerr))
	}
}

func (s *OrderService) validate(in CreateOrderInput) error {
	errs := map[string]string{}
	recompute := s.cfg.Pricing == config.PricingRecompute

	if len(in.Items) == 0 {
		errs["items"] = "Order must contain at least one item"
	}
	for i, it := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		if it.Quantity < 1 {
			errs[field+".quantity"] = "Quantity must be at least 1"
		}
		if recompute {
			if strings.TrimSpace(it.MenuItemID) == "" {
				errs[field+".menuItemId"] = "Menu item is required"
			}
			continue
		}
		if strings.TrimSpace(it.Name) == "" {
			errs[field+".name"] = "Item name is required"
		}
		if it.Price == nil {
			errs[field+".price"] = "Item price is required"
		} else if *it.Price < 0 || math.IsNaN(*it.Price) {
			errs[field+".price"] = "Item price cannot be negative"
		}
	}

	if !models.PaymentMethod(in.PaymentMethod).Valid() {
		errs["paymentMethod"] = "Payment method must be credit-card or cash"
	}

	if !recompute {
		for name, v := range map[string]*float64{"subtotal": in.Subtotal, "tax": in.Tax, "total": in.Total} {
			switch {
			case v == nil:
				errs[name] = "Amount is required"
			case *v < 0 || math.IsNaN(*v):
				errs[name] = "Amount cannot be negative"
			}
		}
	}

	if len(errs) > 0 {
		return FieldErrors(errs)
	}
	return nil
}

func (s *OrderService) build(ctx context.Context, user *models.User, in CreateOrderInput) (*models.Order, error) {
	order := &models.Order{
		UserID:        user.ID,
		Status:        models.OrderStatusPending,
		PaymentMethod: models.PaymentMethod(in.PaymentMethod),
		CreatedAt:     s.now(),
		Items:         make([]models.OrderItem, 0, len(in.Items)),
	}

	if s.cfg.Pricing != config.PricingRecompute {
		for _, it := range in.Items {
			order.Items = append(order.Items, models.OrderItem{
				MenuItemID: strings.TrimSpace(it.MenuItemID),
				Name:       strings.TrimSpace(it.Name),
				Price:      *it.Price,
				Quantity:   it.Quantity,
				Image:      it.Image,
			})
		}
		order.Subtotal, order.Tax, order.Total = *in.Subtotal, *in.Tax, *in.Total
		return order, nil
	}

	var subtotal float64
	for i, it := range in.Items {
		menuItem, err := s.menu.GetMenuItem(ctx, strings.TrimSpace(it.MenuItemID))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, FieldErrors(map[string]string{
					fmt.Sprintf("items[%d].menuItemId", i): "Menu item not found",
				})
			}
			return nil, err
		}
		item := models.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
			Quantity:   it.Quantity,
			Image:      menuItem.Image,
		}
		subtotal += item.LineTotal()
		order.Items = append(order.Items, item)
	}

	order.Subtotal = roundCents(subtotal)
	order.Tax = roundCents(order.Subtotal * s.cfg.TaxRate)
	order.Total = roundCents(order.Subtotal + order.Tax)
	return order, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// insert stores the order, drawing a fresh number whenever the store reports
// a collision.
func (s *OrderService) insert(ctx context.Context, order *models.Order) error {
	var err error
	for attempt := 1; attempt <= s.cfg.NumberAttempts; attempt++ {
		order.OrderNumber = s.numbers(order.CreatedAt)
		err = s.orders.CreateOrder(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateKey) {
			return err
		}
		s.logger.Warn("Order number collision",
			zap.String("order_number", order.OrderNumber),
			zap.Int("attempt", attempt))
	}
	return fmt.Errorf("failed to allocate order number after %d attempts: %w", s.cfg.NumberAttempts, err)
}

func (s *OrderService) List(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders.ListOrdersByUser(ctx, userID)
}

func (s *OrderService) Get(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.orders.GetOrderForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("Order not found")
		}
		return nil, err
	}
	return order, nil
}
