// Package cart holds a customer's pending order lines between page views.
// Every mutation is written through to a Store.
package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrLineNotFound    = errors.New("item not in cart")
)

// Item is the menu data captured when the line was first added.
type Item struct {
	ID    string  `json:"_id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image,omitempty"`
}

type Line struct {
	Item
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

type Store interface {
	Load(ctx context.Context, owner string) ([]Line, error)
	Save(ctx context.Context, owner string, lines []Line) error
}

type Cart struct {
	mu    sync.Mutex
	owner string
	store Store
	lines []Line
}

// Open loads the owner's cart from store.
func Open(ctx context.Context, store Store, owner string) (*Cart, error) {
	lines, err := store.Load(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return &Cart{owner: owner, store: store, lines: lines}, nil
}

func (c *Cart) find(id string) int {
	for i := range c.lines {
		if c.lines[i].ID == id {
			return i
		}
	}
	return -1
}

// Add merges into an existing line for the same item, keeping its price.
func (c *Cart) Add(ctx context.Context, item Item, quantity int, instructions string) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.find(item.ID); i >= 0 {
		c.lines[i].Quantity += quantity
		if instructions = strings.TrimSpace(instructions); instructions != "" {
			c.lines[i].SpecialInstructions = instructions
		}
	} else {
		c.lines = append(c.lines, Line{
			Item:                item,
			Quantity:            quantity,
			SpecialInstructions: strings.TrimSpace(instructions),
		})
	}
	return c.save(ctx)
}

// SetQuantity replaces a line's quantity. Zero or less removes the line.
func (c *Cart) SetQuantity(ctx context.Context, id string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.find(id)
	if i < 0 {
		return ErrLineNotFound
	}
	if quantity <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	} else {
		c.lines[i].Quantity = quantity
	}
	return c.save(ctx)
}

func (c *Cart) SetInstructions(ctx context.Context, id, instructions string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.find(id)
	if i < 0 {
		return ErrLineNotFound
	}
	c.lines[i].SpecialInstructions = strings.TrimSpace(instructions)
	return c.save(ctx)
}

func (c *Cart) Remove(ctx context.Context, id string) error {
	return c.SetQuantity(ctx, id, 0)
}

func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	return c.save(ctx)
}

func (c *Cart) save(ctx context.Context) error {
	if err := c.store.Save(ctx, c.owner, c.lines); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Lines returns a copy of the cart contents in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Total is the sum of price times quantity, rounded to cents.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, l := range c.lines {
		total += l.Price * float64(l.Quantity)
	}
	return math.Round(total*100) / 100
}
