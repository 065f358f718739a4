package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tordrt/erd2prisma/internal/responses"
	"github.com/tordrt/erd2prisma/internal/store"
)

type EnumHandler struct {
	store *store.Store
}

func NewEnumHandler(st *store.Store) *EnumHandler {
	return &EnumHandler{
		store: st,
	}
}

type CreateEnumRequest struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type UpdateEnumRequest struct {
	Values []string `json:"values"`
}

func (h *EnumHandler) ListEnums(c *gin.Context) {
	responses.Success(c, http.StatusOK, h.store.Snapshot().Enums, "")
}

func (h *EnumHandler) CreateEnum(c *gin.Context) {
	var req CreateEnumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	e, err := h.store.AddEnum(req.Name, req.Values)
	if err != nil {
		fail(c, err, "Error while creating the enum")
		return
	}

	responses.Success(c, http.StatusCreated, e, "Enum created successfully")
}

func (h *EnumHandler) UpdateEnum(c *gin.Context) {
	var req UpdateEnumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	e, err := h.store.UpdateEnum(c.Param("name"), req.Values)
	if err != nil {
		fail(c, err, "Error while updating the enum")
		return
	}

	responses.Success(c, http.StatusOK, e, "Enum updated successfully")
}

func (h *EnumHandler) DeleteEnum(c *gin.Context) {
	if err := h.store.DeleteEnum(c.Param("name")); err != nil {
		fail(c, err, "Error while deleting the enum")
		return
	}
	responses.Success(c, http.StatusOK, nil, "Enum deleted successfully")
}
