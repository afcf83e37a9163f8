package main

import (
	"washworks-be/internal/branch"
	"washworks-be/internal/config"
	"washworks-be/internal/db"
	"washworks-be/internal/extrawork"
	"washworks-be/internal/handler"
	"washworks-be/internal/inspection"
	"washworks-be/internal/logger"
	"washworks-be/internal/order"
	"washworks-be/internal/packages"
	"washworks-be/internal/product"
	"washworks-be/internal/storage"
	"washworks-be/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	database := db.InitDB(cfg)
	defer database.Close()

	photos := storage.NewPhotoStore(cfg.StorageURL, cfg.StorageKey, cfg.StorageBucket)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	branchRepo := branch.NewRepository(database)
	branchSvc := branch.NewService(branchRepo)

	packageRepo := packages.NewRepository(database)
	packageSvc := packages.NewService(packageRepo)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	extraWorkRepo := extrawork.NewRepository(database)
	extraWorkSvc := extrawork.NewService(extraWorkRepo)

	inspectionRepo := inspection.NewRepository(database)

	composer := order.NewComposer(branchSvc, packageSvc, productSvc, extraWorkSvc)
	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, composer, inspectionRepo, productSvc, photos)

	r := handler.NewRouter(
		handler.NewHealthHandler(database),
		handler.NewAuthHandler(userSvc),
		handler.NewCatalogHandler(branchSvc, packageSvc, productSvc, extraWorkSvc),
		handler.NewOrderHandler(orderSvc),
	)

	logger.L().Info("server starting", zap.String("port", cfg.AppPort))
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
