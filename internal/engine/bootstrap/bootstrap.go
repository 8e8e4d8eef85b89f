// Copyright 2025 Hangar Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"

	"github.com/go-hangar/hangar/internal/engine/config"
	"github.com/go-hangar/hangar/internal/engine/router"
	"github.com/go-hangar/hangar/internal/engine/service"
	"github.com/go-hangar/hangar/pkg/log"
	"github.com/go-hangar/hangar/pkg/metrics"
)

// App 引擎应用实例
type App struct {
	HttpApp   *fiber.App
	Batches   *service.BatchService
	Manifests *service.ManifestService
	AppConf   config.AppConfig
	Logger    *log.Logger

	sweeper *cron.Cron
}

// NewApp assembles the engine from its wired dependencies. Stores, repos
// and services are constructed by the cmd wire injector; this only puts
// the application together and owns the shutdown cleanup.
func NewApp(
	appConf config.AppConfig,
	logger *log.Logger,
	redisClient *redis.Client,
	rt *router.Router,
	batches *service.BatchService,
	manifests *service.ManifestService,
) (*App, func(), error) {
	metrics.Register()

	app := &App{
		HttpApp:   rt.Router(),
		Batches:   batches,
		Manifests: manifests,
		AppConf:   appConf,
		Logger:    logger,
	}

	cleanup := func() {
		if app.sweeper != nil {
			app.sweeper.Stop()
		}
		if err := redisClient.Close(); err != nil {
			logger.Log.Warnw("redis close failed", "error", err)
		}
	}

	return app, cleanup, nil
}

// Run starts the scheduled cleanup sweep and the HTTP server, then waits
// for an exit signal and shuts down gracefully.
func Run(app *App, cleanup func()) {
	appConf := app.AppConf
	logger := app.Logger.Log

	if appConf.Engine.CleanupSchedule != "" {
		app.sweeper = cron.New()
		err := app.sweeper.AddFunc(appConf.Engine.CleanupSchedule, func() {
			app.Manifests.CleanupExpired(context.Background())
		})
		if err != nil {
			logger.Errorw("invalid cleanup schedule, sweep disabled",
				"schedule", appConf.Engine.CleanupSchedule, "error", err)
		} else {
			app.sweeper.Start()
			logger.Infow("cleanup sweep scheduled", "schedule", appConf.Engine.CleanupSchedule)
		}
	}

	go func() {
		if err := app.HttpApp.Listen(appConf.Http.Listen); err != nil {
			logger.Fatalf("http server failed: %v", err)
		}
	}()
	logger.Infow("engine started", "listen", appConf.Http.Listen)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-quit

	logger.Info("shutting down...")
	if err := app.HttpApp.Shutdown(); err != nil {
		logger.Errorw("http shutdown failed", "error", err)
	}
	cleanup()
}
