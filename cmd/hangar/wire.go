//go:build wireinject
// +build wireinject

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

package main

import (
	"github.com/google/wire"

	"github.com/go-hangar/hangar/internal/engine/bootstrap"
	"github.com/go-hangar/hangar/internal/engine/config"
	"github.com/go-hangar/hangar/internal/engine/repo"
	"github.com/go-hangar/hangar/internal/engine/router"
	"github.com/go-hangar/hangar/internal/engine/service"
	"github.com/go-hangar/hangar/pkg/cache"
	"github.com/go-hangar/hangar/pkg/log"
)

func initApp(appConf config.AppConfig) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		// 配置层
		confProviderSet,
		// 基础设施层
		log.ProviderSet,
		cache.ProviderSet,
		engineProviderSet,
		// 仓储层
		repo.ProviderSet,
		// 服务层
		service.ProviderSet,
		// 路由层
		router.NewRouter,
		// 应用层
		bootstrap.NewApp,
	))
}
