package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tordrt/erd2prisma/internal/compiler"
	"github.com/tordrt/erd2prisma/internal/formatter"
	"github.com/tordrt/erd2prisma/internal/model"
	"github.com/tordrt/erd2prisma/internal/responses"
	"github.com/tordrt/erd2prisma/internal/store"
)

type SchemaHandler struct {
	store    *store.Store
	provider string
}

func NewSchemaHandler(st *store.Store, provider string) *SchemaHandler {
	return &SchemaHandler{
		store:    st,
		provider: provider,
	}
}

type SchemaResponse struct {
	Provider    string                `json:"provider"`
	Schema      string                `json:"schema"`
	Diagnostics []compiler.Diagnostic `json:"diagnostics"`
}

// CompileRequest is a snapshot to compile without touching the store
type CompileRequest struct {
	model.Snapshot
	Provider string `json:"provider"`
}

func (h *SchemaHandler) providerFor(requested string) string {
	if requested != "" {
		return requested
	}
	if h.provider != "" {
		return h.provider
	}
	return compiler.DefaultProvider
}

func compile(s model.Snapshot, provider string) SchemaResponse {
	result := compiler.CompileSnapshot(s, compiler.Options{Provider: provider})
	diags := result.Diagnostics
	if diags == nil {
		diags = []compiler.Diagnostic{}
	}
	return SchemaResponse{
		Provider:    provider,
		Schema:      result.Schema,
		Diagnostics: diags,
	}
}

func (h *SchemaHandler) GetSchema(c *gin.Context) {
	provider := h.providerFor(c.Query("provider"))
	responses.Success(c, http.StatusOK, compile(h.store.Snapshot(), provider), "")
}

func (h *SchemaHandler) DownloadSchema(c *gin.Context) {
	provider := h.providerFor(c.Query("provider"))
	result := compiler.CompileSnapshot(h.store.Snapshot(), compiler.Options{Provider: provider})
	responses.Attachment(c, formatter.DefaultSchemaFile, "text/plain; charset=utf-8", []byte(result.Schema))
}

func (h *SchemaHandler) Compile(c *gin.Context) {
	var req CompileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	responses.Success(c, http.StatusOK, compile(req.Snapshot, h.providerFor(req.Provider)), "")
}
