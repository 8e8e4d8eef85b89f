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

package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/go-hangar/hangar/pkg/cache"
	"github.com/go-hangar/hangar/pkg/log"
)

// HttpConfig HTTP 服务配置
type HttpConfig struct {
	Listen        string
	ContextPath   string
	AccessLog     bool
	ExposeMetrics bool
}

// EngineConfig 批量安装引擎配置
type EngineConfig struct {
	// PluginsDir 插件安装根目录
	PluginsDir string
	// BackupsDir 备份根目录
	BackupsDir string
	// PlatformVersion 宿主平台版本，用于兼容性检查
	PlatformVersion string
	// CleanupSchedule 过期清单清理计划（cron 表达式），为空时不调度
	CleanupSchedule string
	// ActivityLogToRedis 活动日志是否同时写入 Redis 列表
	ActivityLogToRedis bool
}

type AppConfig struct {
	Log    log.Conf
	Http   HttpConfig
	Redis  cache.Redis
	Engine EngineConfig
}

var (
	cfg  AppConfig
	once sync.Once
)

func NewConf(confFile string) AppConfig {
	once.Do(func() {
		var err error
		cfg, err = LoadConfigFile(confFile)
		if err != nil {
			panic(fmt.Sprintf("load config file error: %s", err))
		}
	})
	return cfg
}

// LoadConfigFile load config file
func LoadConfigFile(confFile string) (AppConfig, error) {

	config := viper.New()
	config.SetConfigFile(confFile)
	if err := config.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("failed to read configuration file: %v", err)
	}

	config.WatchConfig()
	config.OnConfigChange(func(e fsnotify.Event) {
		log.Infof("the configuration changed, re-parsing configuration file: %s", e.Name)
		if err := config.Unmarshal(&cfg); err != nil {
			log.Errorf("failed to unmarshal configuration file: %v", err)
		}
	})
	if err := config.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal configuration file: %v", err)
	}
	log.Infow("config file loaded",
		"path", confFile,
	)

	return cfg, nil
}
