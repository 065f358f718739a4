package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tordrt/erd2prisma/internal/model"
	"github.com/tordrt/erd2prisma/internal/responses"
	"github.com/tordrt/erd2prisma/internal/store"
)

type TableHandler struct {
	store *store.Store
}

func NewTableHandler(st *store.Store) *TableHandler {
	return &TableHandler{
		store: st,
	}
}

type CreateTableRequest struct {
	Name     string         `json:"name"`
	Fields   []model.Field  `json:"fields"`
	Position model.Position `json:"position"`
}

// UpdateTableRequest changes any combination of name, position and the
// expanded state.
type UpdateTableRequest struct {
	Name     *string         `json:"name"`
	Position *model.Position `json:"position"`
	Toggle   bool            `json:"toggle"`
}

func (h *TableHandler) CreateTable(c *gin.Context) {
	var req CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	table, err := h.store.AddTable(req.Name, req.Fields, req.Position)
	if err != nil {
		fail(c, err, "Error while creating the table")
		return
	}

	responses.Success(c, http.StatusCreated, table, "Table created successfully")
}

func (h *TableHandler) UpdateTable(c *gin.Context) {
	id := c.Param("id")

	var req UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	if req.Name != nil {
		if err := h.store.RenameTable(id, *req.Name); err != nil {
			fail(c, err, "Error while renaming the table")
			return
		}
	}
	if req.Position != nil {
		if err := h.store.MoveTable(id, *req.Position); err != nil {
			fail(c, err, "Error while moving the table")
			return
		}
	}
	if req.Toggle {
		if err := h.store.ToggleTable(id); err != nil {
			fail(c, err, "Error while toggling the table")
			return
		}
	}

	snap := h.store.Snapshot()
	table, ok := snap.FindTable(id)
	if !ok {
		fail(c, store.ErrTableNotFound, "Table not found")
		return
	}
	responses.Success(c, http.StatusOK, table, "Table updated successfully")
}

func (h *TableHandler) DeleteTable(c *gin.Context) {
	if err := h.store.DeleteTable(c.Param("id")); err != nil {
		fail(c, err, "Error while deleting the table")
		return
	}
	responses.Success(c, http.StatusOK, nil, "Table deleted successfully")
}

func (h *TableHandler) AddField(c *gin.Context) {
	var field model.Field
	if err := c.ShouldBindJSON(&field); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	index, err := h.store.AddField(c.Param("id"), field)
	if err != nil {
		fail(c, err, "Error while adding the field")
		return
	}

	responses.Success(c, http.StatusCreated, gin.H{"index": index}, "Field added successfully")
}

func (h *TableHandler) UpdateField(c *gin.Context) {
	index, ok := fieldIndex(c)
	if !ok {
		return
	}

	var patch store.FieldPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	id := c.Param("id")
	if err := h.store.UpdateField(id, index, patch); err != nil {
		fail(c, err, "Error while updating the field")
		return
	}

	snap := h.store.Snapshot()
	table, _ := snap.FindTable(id)
	responses.Success(c, http.StatusOK, table.Fields[index], "Field updated successfully")
}

func (h *TableHandler) DeleteField(c *gin.Context) {
	index, ok := fieldIndex(c)
	if !ok {
		return
	}

	if err := h.store.DeleteField(c.Param("id"), index); err != nil {
		fail(c, err, "Error while deleting the field")
		return
	}
	responses.Success(c, http.StatusOK, nil, "Field deleted successfully")
}
