package identity

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scribehq/scribe/internal/httpserver"
)

// Handler exposes the identity flow over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler creates the identity handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Routes registers the unauthenticated identity endpoints.
func (h *Handler) Routes(r gin.IRouter) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /register.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpserver.Error(c, httpserver.BindError(err))
		return
	}

	if err := h.svc.Register(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		httpserver.Error(c, err)
		return
	}
	httpserver.Message(c, http.StatusCreated, "User registered successfully")
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpserver.Error(c, httpserver.BindError(err))
		return
	}

	signed, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httpserver.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": signed})
}
