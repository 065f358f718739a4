package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tordrt/erd2prisma/internal/model"
	"github.com/tordrt/erd2prisma/internal/responses"
	"github.com/tordrt/erd2prisma/internal/store"
)

type ModelHandler struct {
	store *store.Store
}

func NewModelHandler(st *store.Store) *ModelHandler {
	return &ModelHandler{
		store: st,
	}
}

func (h *ModelHandler) GetModel(c *gin.Context) {
	responses.Success(c, http.StatusOK, h.store.Document(), "")
}

func (h *ModelHandler) ReplaceModel(c *gin.Context) {
	var doc model.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	h.store.Replace(doc)
	responses.Success(c, http.StatusOK, h.store.Document(), "Model replaced successfully")
}

func (h *ModelHandler) ResetModel(c *gin.Context) {
	h.store.Reset()
	responses.Success(c, http.StatusOK, h.store.Document(), "Model cleared")
}

type ViewportRequest struct {
	Viewport model.Viewport `json:"viewport"`
}

func (h *ModelHandler) SetViewport(c *gin.Context) {
	var req ViewportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	h.store.SetViewport(req.Viewport)
	responses.Success(c, http.StatusOK, req.Viewport, "")
}
