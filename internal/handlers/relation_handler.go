package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tordrt/erd2prisma/internal/model"
	"github.com/tordrt/erd2prisma/internal/responses"
	"github.com/tordrt/erd2prisma/internal/store"
)

type RelationHandler struct {
	store *store.Store
}

func NewRelationHandler(st *store.Store) *RelationHandler {
	return &RelationHandler{
		store: st,
	}
}

type CreateRelationRequest struct {
	Source      string            `json:"source" binding:"required"`
	Target      string            `json:"target" binding:"required"`
	Cardinality model.Cardinality `json:"relationType"`
}

type UpdateRelationRequest struct {
	Source      *string            `json:"source"`
	Target      *string            `json:"target"`
	Cardinality *model.Cardinality `json:"relationType"`
}

func (h *RelationHandler) CreateRelation(c *gin.Context) {
	var req CreateRelationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	rel, err := h.store.Connect(req.Source, req.Target, req.Cardinality)
	if err != nil {
		fail(c, err, "Error while connecting the tables")
		return
	}

	responses.Success(c, http.StatusCreated, rel, "Relation created successfully")
}

func (h *RelationHandler) UpdateRelation(c *gin.Context) {
	id := c.Param("id")

	var req UpdateRelationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	current, ok := findRelation(h.store.Snapshot(), id)
	if !ok {
		fail(c, store.ErrRelationNotFound, "Relation not found")
		return
	}

	if req.Source != nil || req.Target != nil {
		source, target := current.SourceTableID, current.TargetTableID
		if req.Source != nil {
			source = *req.Source
		}
		if req.Target != nil {
			target = *req.Target
		}
		if err := h.store.Reconnect(id, source, target); err != nil {
			fail(c, err, "Error while reconnecting the relation")
			return
		}
	}
	if req.Cardinality != nil {
		if err := h.store.SetCardinality(id, *req.Cardinality); err != nil {
			fail(c, err, "Error while changing the relation type")
			return
		}
	}

	updated, _ := findRelation(h.store.Snapshot(), id)
	responses.Success(c, http.StatusOK, updated, "Relation updated successfully")
}

func (h *RelationHandler) DeleteRelation(c *gin.Context) {
	if err := h.store.DeleteRelation(c.Param("id")); err != nil {
		fail(c, err, "Error while deleting the relation")
		return
	}
	responses.Success(c, http.StatusOK, nil, "Relation deleted successfully")
}

func findRelation(s model.Snapshot, id string) (model.Relation, bool) {
	for _, r := range s.Relations {
		if r.ID == id {
			return r, true
		}
	}
	return model.Relation{}, false
}
