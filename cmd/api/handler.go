package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	frontendURL string
	routes      Routes
}

func NewHandler(frontendURL string, routes Routes) *Handler {
	return &Handler{frontendURL: frontendURL, routes: routes}
}

// Engine builds the gin engine with CORS and every route mounted.
func (h *Handler) Engine() *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware(h.frontendURL))
	SetupRoutes(r, h.routes)
	return r
}

// Start serves on addr until ctx is cancelled, then drains in-flight
// requests for up to 10 seconds.
func (h *Handler) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("[Server] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
