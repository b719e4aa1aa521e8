package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/earsip/internal/buildinfo"
	"github.com/dmitrijs2005/earsip/internal/server"
	"github.com/dmitrijs2005/earsip/internal/server/config"
	"github.com/dmitrijs2005/earsip/internal/server/httpapi"
	"github.com/gin-gonic/gin"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	gin.SetMode(httpapi.Mode(cfg))

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
