package gateway

import (
	"net/http"

	"github.com/example/gourmet/pkg/service"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// register godoc
// @Summary  Create an account
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body  body      registerRequest  true  "New account"
// @Success  201   {object}  service.AuthResult
// @Failure  400   {object}  map[string]interface{}
// @Failure  409   {object}  map[string]interface{}
// @Router   /api/auth/register [post]
func (g *Gateway) register(c *gin.Context) {
	var req registerRequest
	if !g.bindJSON(c, &req) {
		return
	}

	res, err := g.services.Auth.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// login godoc
// @Summary  Exchange credentials for a token
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body  body      loginRequest  true  "Credentials"
// @Success  200   {object}  service.AuthResult
// @Failure  401   {object}  map[string]interface{}
// @Router   /api/auth/login [post]
func (g *Gateway) login(c *gin.Context) {
	var req loginRequest
	if !g.bindJSON(c, &req) {
		return
	}

	res, err := g.services.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
