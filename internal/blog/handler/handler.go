package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell/blog/backend/go-services/internal/blog"
	"github.com/inkwell/blog/backend/go-services/internal/blog/service"
	"github.com/inkwell/blog/backend/go-services/internal/uploads"
	"github.com/inkwell/blog/backend/go-services/pkg/logger"
	"github.com/inkwell/blog/backend/go-services/pkg/middleware"
	"github.com/inkwell/blog/backend/go-services/pkg/response"
)

// Handler serves the posts, comments and likes API.
type Handler struct {
	Posts    *service.PostService
	Comments *service.CommentService
	Likes    *service.LikeService
	Uploads  uploads.Stager
}

type postInput struct {
	Title   string `form:"title" json:"title"`
	Content string `form:"content" json:"content"`
}

type commentInput struct {
	Content string `form:"content" json:"content"`
}

// RegisterRoutes mounts the blog API under api. auth guards the mutating routes.
func RegisterRoutes(api *gin.RouterGroup, h *Handler, auth gin.HandlerFunc) {
	posts := api.Group("/posts")
	posts.GET("", h.listPosts)
	posts.POST("", auth, h.createPost)
	posts.GET("/:postId", h.getPost)
	posts.PUT("/:postId", auth, h.updatePost)
	posts.DELETE("/:postId", auth, h.deletePost)

	comments := api.Group("/comments")
	comments.GET("/:postId/comments", h.listComments)
	comments.POST("/:postId/comments", auth, h.addComment)

	likes := api.Group("/likes")
	likes.POST("/:postId/like", auth, h.toggleLike)
}

func (h *Handler) listPosts(c *gin.Context) {
	f := blog.ParseListFilter(c.Query("search"), c.Query("author"), c.Query("sortBy"), c.Query("page"), c.Query("limit"))
	page, err := h.Posts.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, page, "Posts fetched successfully")
}

func (h *Handler) getPost(c *gin.Context) {
	p, err := h.Posts.Get(c.Request.Context(), c.Param("postId"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, p, "Post fetched successfully")
}

func (h *Handler) createPost(c *gin.Context) {
	var in postInput
	if err := c.ShouldBind(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	image, cleanup, err := h.Uploads.Save(c, "image")
	defer cleanup()
	if err != nil {
		writeError(c, err)
		return
	}
	p, err := h.Posts.Create(c.Request.Context(), in.Title, in.Content, image, middleware.CallerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, http.StatusCreated, p, "Post created successfully")
}

func (h *Handler) updatePost(c *gin.Context) {
	var in postInput
	if err := c.ShouldBind(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	image, cleanup, err := h.Uploads.Save(c, "image")
	defer cleanup()
	if err != nil {
		writeError(c, err)
		return
	}
	p, err := h.Posts.Update(c.Request.Context(), c.Param("postId"), in.Title, in.Content, image, middleware.CallerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, p, "Post updated successfully")
}

func (h *Handler) deletePost(c *gin.Context) {
	if err := h.Posts.Delete(c.Request.Context(), c.Param("postId"), middleware.CallerID(c)); err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{}, "Post deleted successfully")
}

func (h *Handler) listComments(c *gin.Context) {
	list, err := h.Comments.ListByPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, list, "Comments fetched successfully")
}

func (h *Handler) addComment(c *gin.Context) {
	var in commentInput
	if err := c.ShouldBind(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	cm, err := h.Comments.Add(c.Request.Context(), c.Param("postId"), in.Content, middleware.CallerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, http.StatusCreated, cm, "Comment added successfully")
}

func (h *Handler) toggleLike(c *gin.Context) {
	res, err := h.Likes.Toggle(c.Request.Context(), c.Param("postId"), middleware.CallerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	msg := "Post unliked"
	if res.Liked {
		msg = "Post liked"
	}
	response.OK(c, http.StatusOK, res, msg)
}

// writeError maps the blog error taxonomy onto HTTP statuses. Anything
// unclassified is logged and reported as a 500.
func writeError(c *gin.Context, err error) {
	var be *blog.Error
	switch {
	case errors.Is(err, uploads.ErrTooLarge):
		response.Error(c, http.StatusBadRequest, "Uploaded file is too large")
	case errors.As(err, &be):
		response.Error(c, statusFor(be.Kind), be.Message)
	default:
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		response.Error(c, http.StatusInternalServerError, "Internal server error")
	}
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, blog.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(kind, blog.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(kind, blog.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(kind, blog.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
