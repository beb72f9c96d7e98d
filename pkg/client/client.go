// Package client talks to the ordering API on behalf of one customer and
// keeps their session on disk between runs.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/gourmet/pkg/cart"
	"github.com/example/gourmet/pkg/models"
	"github.com/example/gourmet/pkg/service"
	"go.uber.org/zap"
)

// ErrNotAuthenticated is returned by operations that need a signed-in user.
var ErrNotAuthenticated = errors.New("user not authenticated")

// Error is a failed API call. Message is the server's message when it sent
// one, otherwise a fixed text naming the operation.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

type Client struct {
	baseURL string
	http    *http.Client
	session *SessionFile
	logger  *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New restores the session stored at sessionPath, if any.
func New(baseURL, sessionPath string, opts ...Option) (*Client, error) {
	session, err := OpenSessionFile(sessionPath)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: session,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// User is the signed-in user, or nil.
func (c *Client) User() *models.User {
	return c.session.Get().User
}

func (c *Client) Authenticated() bool {
	return c.session.Get().Authenticated()
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, false, &out, "Registration failed"); err != nil {
		return nil, err
	}
	return c.signIn(out)
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	body := map[string]string{"email": email, "password": password}
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, false, &out, "Login failed"); err != nil {
		return nil, err
	}
	return c.signIn(out)
}

func (c *Client) signIn(out authResponse) (*models.User, error) {
	if out.Token == "" || out.User == nil {
		return nil, &Error{Message: "Malformed authentication response"}
	}
	if err := c.session.Set(Session{User: out.User, Token: out.Token}); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *Client) Logout() error {
	return c.session.Clear()
}

// Me refreshes the stored user from the server.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, true, &user, "Failed to fetch profile"); err != nil {
		return nil, err
	}
	if err := c.updateUser(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, in service.ProfileInput) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPut, "/api/users/me", in, true, &user, "Update failed"); err != nil {
		return nil, err
	}
	if err := c.updateUser(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) updateUser(user *models.User) error {
	s := c.session.Get()
	s.User = user
	return c.session.Set(s)
}

func (c *Client) Menu(ctx context.Context, filter service.MenuFilter) ([]models.MenuItem, error) {
	q := url.Values{}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.PopularOnly {
		q.Set("popular", "true")
	}

	path := "/api/menu"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var items []models.MenuItem
	if err := c.do(ctx, http.MethodGet, path, nil, false, &items, "Failed to fetch menu"); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) MenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := c.do(ctx, http.MethodGet, "/api/menu/"+url.PathEscape(id), nil, false, &item, "Failed to fetch menu item"); err != nil {
		return nil, err
	}
	return &item, nil
}

// MakeOrder places an order. A non-empty idempotencyKey makes retries safe.
func (c *Client) MakeOrder(ctx context.Context, in service.CreateOrderInput, idempotencyKey string) (*models.Order, error) {
	var order models.Order
	err := c.doWithHeaders(ctx, http.MethodPost, "/api/orders", in, true, &order, "Order failed",
		map[string]string{"Idempotency-Key": idempotencyKey})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Cart opens the signed-in user's cart from store, or the guest cart when
// nobody is signed in.
func (c *Client) Cart(ctx context.Context, store cart.Store) (*cart.Cart, error) {
	owner := "guest"
	if u := c.User(); u != nil {
		owner = u.ID
	}
	return cart.Open(ctx, store, owner)
}

// Checkout turns the cart into an order priced the way the checkout page
// shows it, then empties the cart.
func (c *Client) Checkout(ctx context.Context, ct *cart.Cart, method models.PaymentMethod, taxRate float64, idempotencyKey string) (*models.Order, error) {
	lines := ct.Lines()
	if len(lines) == 0 {
		return nil, &Error{Message: "Cart is empty"}
	}

	in := service.CreateOrderInput{PaymentMethod: string(method)}
	for _, l := range lines {
		price := l.Price
		in.Items = append(in.Items, service.OrderItemInput{
			MenuItemID: l.ID,
			Name:       l.Name,
			Price:      &price,
			Quantity:   l.Quantity,
			Image:      l.Image,
		})
	}
	subtotal := ct.Total()
	tax := math.Round(subtotal*taxRate*100) / 100
	total := math.Round((subtotal+tax)*100) / 100
	in.Subtotal, in.Tax, in.Total = &subtotal, &tax, &total

	order, err := c.MakeOrder(ctx, in, idempotencyKey)
	if err != nil {
		return nil, err
	}
	if err := ct.Clear(ctx); err != nil {
		c.logger.Warn("Failed to clear cart after checkout", zap.String("order_id", order.ID), zap.Error(err))
	}
	return order, nil
}

func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, true, &orders, "Failed to fetch orders"); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) Order(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id), nil, true, &order, "Failed to fetch order"); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, authed bool, dest interface{}, fallback string) error {
	return c.doWithHeaders(ctx, method, path, body, authed, dest, fallback, nil)
}

func (c *Client) doWithHeaders(ctx context.Context, method, path string, body interface{}, authed bool, dest interface{}, fallback string, headers map[string]string) error {
	var token string
	if authed {
		s := c.session.Get()
		if !s.Authenticated() {
			return ErrNotAuthenticated
		}
		token = s.Token
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn(fallback, zap.String("path", path), zap.Error(err))
		return &Error{Message: fallback}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Status: resp.StatusCode, Message: fallback}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &Error{Status: resp.StatusCode, Message: fallback}
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &payload) == nil && payload.Message != "" {
			apiErr.Message = payload.Message
		}
		c.logger.Warn(fallback,
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message))
		return apiErr
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
