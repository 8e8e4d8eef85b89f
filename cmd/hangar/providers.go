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

	"github.com/go-hangar/hangar/internal/engine/config"
	"github.com/go-hangar/hangar/internal/engine/consts"
	"github.com/go-hangar/hangar/internal/engine/installer"
	"github.com/go-hangar/hangar/internal/engine/service"
	"github.com/go-hangar/hangar/internal/pkg/logsink"
	"github.com/go-hangar/hangar/pkg/backup"
	"github.com/go-hangar/hangar/pkg/cache"
	"github.com/go-hangar/hangar/pkg/log"
)

// confProviderSet 配置层 ProviderSet
var confProviderSet = wire.NewSet(
	provideLogConf,
	provideRedisConf,
	provideHttpConfig,
	provideServiceConfig,
)

func provideLogConf(appConf config.AppConfig) *log.Conf {
	return &appConf.Log
}

func provideRedisConf(appConf config.AppConfig) cache.Redis {
	return appConf.Redis
}

func provideHttpConfig(appConf config.AppConfig) config.HttpConfig {
	return appConf.Http
}

func provideServiceConfig(appConf config.AppConfig) service.Config {
	return service.Config{
		PluginsDir:      appConf.Engine.PluginsDir,
		PlatformVersion: appConf.Engine.PlatformVersion,
	}
}

// engineProviderSet 引擎基础设施 ProviderSet
var engineProviderSet = wire.NewSet(
	provideBackupStore,
	provideInstaller,
	provideLogSink,
)

func provideBackupStore(appConf config.AppConfig) *backup.Store {
	return backup.NewStore(appConf.Engine.BackupsDir)
}

func provideInstaller(appConf config.AppConfig) installer.Installer {
	return installer.NewDirInstaller(appConf.Engine.PluginsDir)
}

// provideLogSink 活动日志出口；开启 ActivityLogToRedis 时同时写入 Redis 列表
func provideLogSink(appConf config.AppConfig, keyedStore cache.IKeyedStore) logsink.ILogSink {
	if appConf.Engine.ActivityLogToRedis {
		return logsink.NewMultiSink(
			logsink.NewZapSink(),
			logsink.NewRedisSink(keyedStore, consts.ActivityLogKey, consts.ActivityLogMaxLen),
		)
	}
	return logsink.NewZapSink()
}
