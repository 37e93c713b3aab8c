package posts

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scribehq/scribe/internal/apperr"
	"github.com/scribehq/scribe/internal/httpserver"
	"github.com/scribehq/scribe/internal/httpserver/middleware"
	"github.com/scribehq/scribe/internal/store"
)

// Handler exposes the post ownership flow over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler creates the posts handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Routes registers the post endpoints: listing is public, mutations sit
// behind the auth middleware of the authed group.
func (h *Handler) Routes(public, authed gin.IRouter) {
	public.GET("/posts", h.List)
	authed.POST("/posts", h.Create)
	authed.PUT("/posts/:postId", h.Update)
	authed.DELETE("/posts/:postId", h.Delete)
}

// List handles GET /posts.
func (h *Handler) List(c *gin.Context) {
	views, err := h.svc.List(c.Request.Context())
	if err != nil {
		httpserver.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": views})
}

type createRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
	Image string `json:"image"`
}

// Create handles POST /posts.
func (h *Handler) Create(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		httpserver.Error(c, apperr.Unauthenticated())
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpserver.Error(c, httpserver.BindError(err))
		return
	}

	post, err := h.svc.Create(c.Request.Context(), id, req.Title, req.Body, req.Image)
	if err != nil {
		httpserver.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// Update handles PUT /posts/:postId. The body is an arbitrary shallow patch.
func (h *Handler) Update(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		httpserver.Error(c, apperr.Unauthenticated())
		return
	}

	var patch store.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		httpserver.Error(c, httpserver.BindError(err))
		return
	}

	post, err := h.svc.Update(c.Request.Context(), id, c.Param("postId"), patch)
	if err != nil {
		httpserver.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /posts/:postId.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		httpserver.Error(c, apperr.Unauthenticated())
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, c.Param("postId")); err != nil {
		httpserver.Error(c, err)
		return
	}
	httpserver.Message(c, http.StatusOK, "Post deleted")
}
