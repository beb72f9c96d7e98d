package gateway

import (
	"errors"
	"net/http"

	"github.com/example/gourmet/pkg/cart"
	"github.com/example/gourmet/pkg/service"
	"github.com/gin-gonic/gin"
)

type cartView struct {
	Items []cart.Line `json:"items"`
	Count int         `json:"count"`
	Total float64     `json:"total"`
}

type addCartItemRequest struct {
	MenuItemID          string `json:"menuItemId" binding:"required"`
	Quantity            int    `json:"quantity" binding:"omitempty,min=1"`
	SpecialInstructions string `json:"specialInstructions" binding:"max=500"`
}

type updateCartItemRequest struct {
	Quantity            *int    `json:"quantity"`
	SpecialInstructions *string `json:"specialInstructions" binding:"omitempty,max=500"`
}

func (g *Gateway) openCart(c *gin.Context) (*cart.Cart, bool) {
	ct, err := cart.Open(c.Request.Context(), g.services.Carts, currentUser(c).ID)
	if err != nil {
		g.respondError(c, err)
		return nil, false
	}
	return ct, true
}

func (g *Gateway) writeCart(c *gin.Context, ct *cart.Cart) {
	c.JSON(http.StatusOK, cartView{Items: ct.Lines(), Count: ct.Count(), Total: ct.Total()})
}

func cartError(err error) error {
	switch {
	case errors.Is(err, cart.ErrLineNotFound):
		return service.NotFound("Item not in cart")
	case errors.Is(err, cart.ErrInvalidQuantity):
		return service.FieldErrors(map[string]string{"quantity": "Must be at least 1"})
	}
	return err
}

// getCart godoc
// @Summary   Caller's cart
// @Tags      cart
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  cartView
// @Router    /api/cart [get]
func (g *Gateway) getCart(c *gin.Context) {
	ct, ok := g.openCart(c)
	if !ok {
		return
	}
	g.writeCart(c, ct)
}

// addCartItem godoc
// @Summary   Add a menu item to the cart
// @Tags      cart
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      addCartItemRequest  true  "Line"
// @Success   200   {object}  cartView
// @Failure   404   {object}  map[string]interface{}
// @Router    /api/cart/items [post]
func (g *Gateway) addCartItem(c *gin.Context) {
	var req addCartItemRequest
	if !g.bindJSON(c, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := g.services.Menu.Get(c.Request.Context(), req.MenuItemID)
	if err != nil {
		g.respondError(c, err)
		return
	}

	ct, ok := g.openCart(c)
	if !ok {
		return
	}

	snapshot := cart.Item{ID: item.ID, Name: item.Name, Price: item.Price, Image: item.Image}
	if err := ct.Add(c.Request.Context(), snapshot, req.Quantity, req.SpecialInstructions); err != nil {
		g.respondError(c, cartError(err))
		return
	}
	g.writeCart(c, ct)
}

// updateCartItem godoc
// @Summary   Change quantity or instructions; quantity 0 removes the line
// @Tags      cart
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      string                 true  "Menu item id"
// @Param     body  body      updateCartItemRequest  true  "Changes"
// @Success   200   {object}  cartView
// @Failure   404   {object}  map[string]interface{}
// @Router    /api/cart/items/{id} [put]
func (g *Gateway) updateCartItem(c *gin.Context) {
	var req updateCartItemRequest
	if !g.bindJSON(c, &req) {
		return
	}

	ct, ok := g.openCart(c)
	if !ok {
		return
	}

	id := c.Param("id")
	ctx := c.Request.Context()
	if req.SpecialInstructions != nil {
		if err := ct.SetInstructions(ctx, id, *req.SpecialInstructions); err != nil {
			g.respondError(c, cartError(err))
			return
		}
	}
	if req.Quantity != nil {
		if err := ct.SetQuantity(ctx, id, *req.Quantity); err != nil {
			g.respondError(c, cartError(err))
			return
		}
	}
	g.writeCart(c, ct)
}

// removeCartItem godoc
// @Summary   Remove a line
// @Tags      cart
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "Menu item id"
// @Success   200  {object}  cartView
// @Router    /api/cart/items/{id} [delete]
func (g *Gateway) removeCartItem(c *gin.Context) {
	ct, ok := g.openCart(c)
	if !ok {
		return
	}
	if err := ct.Remove(c.Request.Context(), c.Param("id")); err != nil {
		g.respondError(c, cartError(err))
		return
	}
	g.writeCart(c, ct)
}

// clearCart godoc
// @Summary   Empty the cart
// @Tags      cart
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  cartView
// @Router    /api/cart [delete]
func (g *Gateway) clearCart(c *gin.Context) {
	ct, ok := g.openCart(c)
	if !ok {
		return
	}
	if err := ct.Clear(c.Request.Context()); err != nil {
		g.respondError(c, err)
		return
	}
	g.writeCart(c, ct)
}
