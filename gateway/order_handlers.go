package gateway

import (
	"net/http"

	"github.com/example/gourmet/pkg/service"
	"github.com/gin-gonic/gin"
)

const idempotencyHeader = "Idempotency-Key"

// createOrder godoc
// @Summary   Place an order
// @Tags      orders
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     Idempotency-Key  header    string                    false  "Replays return the original order"
// @Param     body             body      service.CreateOrderInput  true   "Order"
// @Success   201              {object}  models.Order
// @Success   200              {object}  models.Order  "Replayed"
// @Failure   400              {object}  map[string]interface{}
// @Failure   409              {object}  map[string]interface{}
// @Router    /api/orders [post]
func (g *Gateway) createOrder(c *gin.Context) {
	var req service.CreateOrderInput
	if !g.bindJSON(c, &req) {
		return
	}

	order, replayed, err := g.services.Orders.Create(c.Request.Context(), currentUser(c), req, c.GetHeader(idempotencyHeader))
	if err != nil {
		g.respondError(c, err)
		return
	}

	if replayed {
		c.JSON(http.StatusOK, order)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// listOrders godoc
// @Summary   Caller's orders, newest first
// @Tags      orders
// @Produce   json
// @Security  BearerAuth
// @Success   200  {array}  models.Order
// @Router    /api/orders [get]
func (g *Gateway) listOrders(c *gin.Context) {
	orders, err := g.services.Orders.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// getOrder godoc
// @Summary   One of the caller's orders
// @Tags      orders
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "Order id"
// @Success   200  {object}  models.Order
// @Failure   404  {object}  map[string]interface{}
// @Router    /api/orders/{id} [get]
func (g *Gateway) getOrder(c *gin.Context) {
	order, err := g.services.Orders.Get(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
