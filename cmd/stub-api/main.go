package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/uniport/uniport-portal/internal/stub"
	"github.com/uniport/uniport-portal/pkg/config"
	"github.com/uniport/uniport-portal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg.Env, cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	store := stub.NewStore()
	acct, err := stub.Seed(store)
	if err != nil {
		logr.Sugar().Fatalw("seed failed", "error", err)
	}
	logr.Sugar().Infow("stub seeded", "email", acct.Email, "user_id", acct.ID)

	r := stub.NewRouter(store, cfg.Stub, logr)

	addr := fmt.Sprintf(":%d", cfg.Stub.Port)
	logr.Sugar().Infow("stub portal starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("stub portal failed", "error", err)
	}
}
