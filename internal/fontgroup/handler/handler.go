package handler

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/apperr"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/fontgroup"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/response"
)

// Service is the subset of the font group service the HTTP layer needs.
type Service interface {
	Create(ctx context.Context, in fontgroup.Input) (*fontgroup.Group, error)
	Get(ctx context.Context, id string) (*fontgroup.Group, error)
	List(ctx context.Context) ([]*fontgroup.Group, error)
	Update(ctx context.Context, id string, in fontgroup.Input) (*fontgroup.Group, error)
	Delete(ctx context.Context, id string) error
}

var errEmptyBody = errors.New("empty JSON object")

type handler struct {
	svc Service
}

// RegisterFontGroupRoutes mounts the font group endpoints on r. guard, when
// non-nil, runs in front of every mutating endpoint.
func RegisterFontGroupRoutes(r gin.IRouter, svc Service, guard gin.HandlerFunc) {
	h := &handler{svc: svc}
	write := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		if guard == nil {
			return []gin.HandlerFunc{fn}
		}
		return []gin.HandlerFunc{guard, fn}
	}

	r.GET("/get-font-groups", h.list)
	r.GET("/font-groups/:id", h.get)
	r.POST("/create-font-group", write(h.create)...)
	r.POST("/update-font-group", write(h.update)...)
	r.PUT("/update-font-group", write(h.update)...)
	r.POST("/delete-font-group", write(h.delete)...)
	r.DELETE("/delete-font-group", write(h.delete)...)
}

func (h *handler) list(c *gin.Context) {
	groups, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, groups, "Font groups retrieved successfully.")
}

func (h *handler) get(c *gin.Context) {
	g, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, g, "Font group retrieved successfully.")
}

func (h *handler) create(c *gin.Context) {
	var req fontgroup.Input
	if err := bindObject(c, &req); err != nil {
		response.Error(c, apperr.Validation(fontgroup.MsgInvalidJSON))
		return
	}
	g, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, g, "Font group created successfully.")
}

type updateRequest struct {
	ID string `json:"id"`
	fontgroup.Input
}

func (h *handler) update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation(fontgroup.MsgInvalidJSON))
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		response.Error(c, apperr.Validation(fontgroup.MsgGroupIDRequired))
		return
	}
	if _, err := h.svc.Update(c.Request.Context(), req.ID, req.Input); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil, "Font group updated successfully.")
}

func (h *handler) delete(c *gin.Context) {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ID) == "" {
		response.Error(c, apperr.Validation(fontgroup.MsgGroupIDRequired))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil, "Font group deleted successfully.")
}

// bindObject decodes the body into dst and rejects null, non-object and empty
// object bodies.
func bindObject(c *gin.Context, dst interface{}) error {
	raw, err := c.GetRawData()
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	if len(fields) == 0 {
		return errEmptyBody
	}
	return json.Unmarshal(raw, dst)
}
