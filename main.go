package main

import (
	"fileroom/backend/api"
	"fileroom/backend/config"
	"fileroom/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	a, err := api.NewRouter()
	if err != nil {
		panic(err)
	}

	if *config.Seed {
		if err := service.Bootstrap(a.Accounts); err != nil {
			zap.L().Fatal("Failed to seed the admin account", zap.Error(err))
		}
	}

	zap.L().Info("Server starting")

	err = a.Router.Run(":" + viper.GetString("host.port"))
	if err != nil {
		panic(err)
	}
}
