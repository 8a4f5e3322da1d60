package snippet

import (
	"errors"
	"fmt"

	"github.com/aicody-snippets/core/internal/middleware"
	"github.com/aicody-snippets/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts the snippet routes. The surrounding API group runs
// OptionalAuth, so read routes already know the caller when a token is
// present; mutation routes additionally require one.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/snippets")

	g.GET("", h.listLegacy) // deprecated combined route, see /my and /public
	g.GET("/my", authMW, h.listMine)
	g.GET("/public", h.listPublic)
	g.GET("/:id", h.getByID)

	g.POST("", authMW, h.create)
	g.PUT("/:id", authMW, h.update)
	g.DELETE("/:id", authMW, h.delete)
}

func (h *Handler) listMine(c *gin.Context) {
	h.list(c, ScopeMine)
}

func (h *Handler) listPublic(c *gin.Context) {
	h.list(c, ScopePublic)
}

func (h *Handler) listLegacy(c *gin.Context) {
	h.list(c, ScopeLegacy)
}

func (h *Handler) list(c *gin.Context, scope Scope) {
	q := ListQuery{
		Language: c.Query("language"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
	}
	items, err := h.svc.List(c.Request.Context(), callerFrom(c), scope, q)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) getByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.svc.GetByID(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, item)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateSnippetDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.ValidationFailed(c, bindingMessages(err))
		return
	}
	item, err := h.svc.Create(c.Request.Context(), callerFrom(c), &dto)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, item)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var dto UpdateSnippetDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.ValidationFailed(c, bindingMessages(err))
		return
	}
	item, err := h.svc.Update(c.Request.Context(), callerFrom(c), id, &dto)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, item)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), callerFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "Snippet deleted successfully"})
}

func callerFrom(c *gin.Context) Caller {
	return Caller{ID: middleware.CurrentUserID(c)}
}

// A malformed ObjectID in the path cannot match any snippet; report 404,
// not 400, so probing with garbage IDs looks the same as a miss.
func parseID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.NotFoundMsg(c, "Snippet not found")
		return primitive.NilObjectID, false
	}
	return id, true
}

func respondError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationFailed(c, verr.Messages())
	case errors.Is(err, ErrUnauthenticated):
		response.Unauthorized(c)
	case errors.Is(err, ErrForbidden):
		response.Forbidden(c)
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "Snippet not found")
	default:
		response.InternalError(c, err)
	}
}

// bindingMessages converts gin binding failures into the same per-field
// messages the service-level validator produces, so a violation reads
// identically no matter which layer catches it.
func bindingMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, bindingMessage(fe))
	}
	return msgs
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		switch fe.Field() {
		case "Code":
			return "Code content is required"
		case "Language":
			return "Programming language is required"
		}
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
