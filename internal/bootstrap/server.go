package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/roomstay/api"
	"github.com/Domenick1991/roomstay/config"
	"github.com/Domenick1991/roomstay/internal/domain"
	"github.com/Domenick1991/roomstay/internal/service/booking"
	"github.com/Domenick1991/roomstay/internal/service/catalog"
	"github.com/Domenick1991/roomstay/internal/storage"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, bookingSvc booking.BookingUseCase, catalogSvc catalog.CatalogUseCase, blobs storage.BlobStore) error {
	router := NewRouter(cfg, bookingSvc, catalogSvc, blobs)

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func NewRouter(cfg *config.Config, bookingSvc booking.BookingUseCase, catalogSvc catalog.CatalogUseCase, blobs storage.BlobStore) *gin.Engine {
	router := gin.Default()

	propertyHandler := api.NewPropertyHandler(catalogSvc)
	bookingHandler := api.NewBookingHandler(bookingSvc, blobs)
	tenantHandler := api.NewTenantHandler(bookingSvc)

	propertyHandler.Register(router.Group("/properties"))

	auth := api.ActorAuth(cfg.Auth.JWTSecret)
	bookingHandler.Register(router.Group("/bookings", auth, api.RequireRole(domain.RoleGuest)))
	tenantHandler.Register(router.Group("/tenant", auth, api.RequireRole(domain.RoleTenant)))

	if cfg.Uploads.Dir != "" && cfg.Uploads.BaseURL != "" {
		router.Static(cfg.Uploads.BaseURL, cfg.Uploads.Dir)
	}

	return router
}
