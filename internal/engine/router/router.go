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

package router

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/go-hangar/hangar/internal/engine/config"
	"github.com/go-hangar/hangar/internal/engine/service"
)

type Router struct {
	Http      config.HttpConfig
	Batches   *service.BatchService
	Manifests *service.ManifestService
}

func NewRouter(httpConf config.HttpConfig, batches *service.BatchService, manifests *service.ManifestService) *Router {
	return &Router{
		Http:      httpConf,
		Batches:   batches,
		Manifests: manifests,
	}
}

func (rt *Router) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(recover.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	if rt.Http.ExposeMetrics {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	contextPath := rt.Http.ContextPath
	if contextPath == "" {
		contextPath = "/api"
	}
	api := app.Group(contextPath)
	{
		rt.batchRouter(api)
	}

	return app
}
