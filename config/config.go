package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"riichi/log"
	"riichi/record"
)

// Conf 全局配置，Load 成功后可用
var Conf ServerConfig

type LogConf struct {
	Level string `mapstructure:"level"`
}

type NatsConf struct {
	URL string `mapstructure:"url"`
}

// RulesConf 对局规则。布尔开关按配置值生效，点数字段缺省回退引擎默认
type RulesConf struct {
	AkaDora              bool `mapstructure:"akaDora"`
	OpenTanyao           bool `mapstructure:"openTanyao"`
	DeadWallDrawConsumes bool `mapstructure:"deadWallDrawConsumes"`
	AllowRiichiKan       bool `mapstructure:"allowRiichiKan"`
	KokushiChankan       bool `mapstructure:"kokushiChankan"`
	StartPoints          int  `mapstructure:"startPoints"`
	MinWinPoints         int  `mapstructure:"minWinPoints"`
	NotenPool            int  `mapstructure:"notenPool"`
}

type ServerConfig struct {
	Name  string           `mapstructure:"name"`
	Addr  string           `mapstructure:"addr"`
	Log   LogConf          `mapstructure:"log"`
	Nats  NatsConf         `mapstructure:"nats"`
	Mongo record.MongoConf `mapstructure:"mongo"`
	Rules RulesConf        `mapstructure:"rules"`
}

// Load 读取配置文件并监听变更：日志级别支持热更新
func Load(configFile string) error {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("读取配置失败: %v", err)
	}
	if err := v.Unmarshal(&Conf); err != nil {
		return fmt.Errorf("解析配置失败: %v", err)
	}

	v.WatchConfig()
	v.OnConfigChange(func(in fsnotify.Event) {
		var next ServerConfig
		if err := v.Unmarshal(&next); err != nil {
			log.Warn("配置热更新解析失败: %v", err)
			return
		}
		if next.Log.Level != Conf.Log.Level {
			log.SetLevel(next.Log.Level)
			log.Info("日志级别切换为 %s", next.Log.Level)
		}
		Conf = next
	})
	return nil
}
