package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/earsip/internal/admincli"
	"github.com/dmitrijs2005/earsip/internal/buildinfo"
	"github.com/dmitrijs2005/earsip/internal/dbx"
	"github.com/dmitrijs2005/earsip/internal/server/auth"
	"github.com/dmitrijs2005/earsip/internal/server/config"
	"github.com/dmitrijs2005/earsip/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/earsip/internal/server/services"
)

func main() {

	buildinfo.PrintBuildData(os.Stderr)

	command, args := "", []string{}
	if len(os.Args) > 1 {
		command, args = os.Args[1], os.Args[2:]
	}

	cfg, err := config.Load(args, os.LookupEnv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	db, err := dbx.Open(ctx, cfg.DatabaseDSN, dbx.PoolOptions{MaxOpenConns: 2, ConnectTimeout: cfg.DBConnectTimeout})
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	users := services.NewUserService(db, rm,
		auth.NewTokenCodec(cfg.SecretKey, cfg.SessionTTL),
		auth.NewPasswordHasher(cfg.BcryptCost))

	app := admincli.NewApp(db, rm, users, os.Stdin, os.Stdout, int(os.Stdin.Fd()))
	if err := app.Run(ctx, command); err != nil {
		db.Close()
		log.Fatalf("%v", err)
	}
}
