package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tordrt/erd2prisma/internal/handlers"
	"github.com/tordrt/erd2prisma/internal/store"
)

// RegisterRoutes mounts the editor API under /api/v1
func RegisterRoutes(router *gin.Engine, st *store.Store, provider string) {
	modelHandler := handlers.NewModelHandler(st)
	tableHandler := handlers.NewTableHandler(st)
	relationHandler := handlers.NewRelationHandler(st)
	enumHandler := handlers.NewEnumHandler(st)
	schemaHandler := handlers.NewSchemaHandler(st, provider)

	api := router.Group("/api/v1")
	{
		api.GET("/model", modelHandler.GetModel)
		api.PUT("/model", modelHandler.ReplaceModel)
		api.DELETE("/model", modelHandler.ResetModel)
		api.PUT("/model/viewport", modelHandler.SetViewport)

		api.POST("/tables", tableHandler.CreateTable)
		api.PATCH("/tables/:id", tableHandler.UpdateTable)
		api.DELETE("/tables/:id", tableHandler.DeleteTable)
		api.POST("/tables/:id/fields", tableHandler.AddField)
		api.PATCH("/tables/:id/fields/:index", tableHandler.UpdateField)
		api.DELETE("/tables/:id/fields/:index", tableHandler.DeleteField)

		api.POST("/relations", relationHandler.CreateRelation)
		api.PATCH("/relations/:id", relationHandler.UpdateRelation)
		api.DELETE("/relations/:id", relationHandler.DeleteRelation)

		api.GET("/enums", enumHandler.ListEnums)
		api.POST("/enums", enumHandler.CreateEnum)
		api.PUT("/enums/:name", enumHandler.UpdateEnum)
		api.DELETE("/enums/:name", enumHandler.DeleteEnum)

		api.GET("/schema", schemaHandler.GetSchema)
		api.GET("/schema/download", schemaHandler.DownloadSchema)
		api.POST("/compile", schemaHandler.Compile)
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}
