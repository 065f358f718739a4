package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"

	"github.com/tordrt/erd2prisma/internal/config"
	"github.com/tordrt/erd2prisma/internal/model"
	"github.com/tordrt/erd2prisma/internal/persist"
	"github.com/tordrt/erd2prisma/internal/store"
)

// saveTimeout bounds a single autosave
const saveTimeout = 5 * time.Second

// NewRouter builds the gin engine serving the editor API
func NewRouter(cfg *config.Config, st *store.Store) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	if len(cfg.Server.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	}
	router.Use(cors.New(corsConfig))

	RegisterRoutes(router, st, cfg.Provider)
	return router
}

// NewServer creates the HTTP server. When autosave is enabled every store
// mutation is written through repo.
func NewServer(cfg *config.Config, st *store.Store, repo *persist.Repository) *http.Server {
	if cfg.Server.Autosave && repo != nil {
		AttachAutosave(st, repo)
	}

	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      NewRouter(cfg, st),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// AttachAutosave saves the document after every store mutation. Save
// failures are logged and never reach the caller.
func AttachAutosave(st *store.Store, repo *persist.Repository) {
	st.OnChange(func(doc model.Document) {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := repo.Save(ctx, doc); err != nil {
			log.Printf("autosave failed: %v", err)
		}
	})
}
