package gateway

import (
	"net/http"

	"github.com/example/gourmet/pkg/service"
	"github.com/gin-gonic/gin"
)

// getProfile godoc
// @Summary   Current user
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  models.User
// @Failure   401  {object}  map[string]interface{}
// @Router    /api/users/me [get]
func (g *Gateway) getProfile(c *gin.Context) {
	user, err := g.services.Users.Profile(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// updateProfile godoc
// @Summary   Update name, email, phone and address
// @Tags      users
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      service.ProfileInput  true  "Profile"
// @Success   200   {object}  models.User
// @Failure   400   {object}  map[string]interface{}
// @Failure   409   {object}  map[string]interface{}
// @Router    /api/users/me [put]
func (g *Gateway) updateProfile(c *gin.Context) {
	var req service.ProfileInput
	if !g.bindJSON(c, &req) {
		return
	}

	user, err := g.services.Users.UpdateProfile(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
