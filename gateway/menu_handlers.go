package gateway

import (
	"net/http"

	"github.com/example/gourmet/pkg/service"
	"github.com/gin-gonic/gin"
)

// listMenu godoc
// @Summary  List menu items
// @Tags     menu
// @Produce  json
// @Param    category  query     string  false  "Exact category"
// @Param    search    query     string  false  "Substring of name or description"
// @Param    popular   query     bool    false  "Only popular items"
// @Success  200       {array}   models.MenuItem
// @Router   /api/menu [get]
func (g *Gateway) listMenu(c *gin.Context) {
	filter := service.MenuFilter{
		Category:    c.Query("category"),
		Search:      c.Query("search"),
		PopularOnly: c.Query("popular") == "true",
	}

	items, err := g.services.Menu.List(c.Request.Context(), filter)
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// getMenuItem godoc
// @Summary  One menu item
// @Tags     menu
// @Produce  json
// @Param    id   path      string  true  "Menu item id"
// @Success  200  {object}  models.MenuItem
// @Failure  404  {object}  map[string]interface{}
// @Router   /api/menu/{id} [get]
func (g *Gateway) getMenuItem(c *gin.Context) {
	item, err := g.services.Menu.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
