package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 服务端配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Game   GameConfig   `yaml:"game"`
	Ops    OpsConfig    `yaml:"ops"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
}

// RedisConfig Redis 配置（ranked 模式战绩落盘）
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 游戏配置
type GameConfig struct {
	TurnTimeout    int `yaml:"turn_timeout"`    // 回合超时（秒），超时转托管
	SwapTimeout    int `yaml:"swap_timeout"`    // 换座确认超时（秒）
	ReconnectGrace int `yaml:"reconnect_grace"` // 重连令牌宽限期（分钟）
	RoomTimeout    int `yaml:"room_timeout"`    // 房间等待超时（分钟）
}

// OpsConfig 运维接口配置。生产环境必须关闭。
type OpsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// TurnTimeoutDuration 返回回合超时时长
func (c *GameConfig) TurnTimeoutDuration() time.Duration {
	return time.Duration(c.TurnTimeout) * time.Second
}

// SwapTimeoutDuration 返回换座确认超时时长
func (c *GameConfig) SwapTimeoutDuration() time.Duration {
	return time.Duration(c.SwapTimeout) * time.Second
}

// ReconnectGraceDuration 返回重连宽限期
func (c *GameConfig) ReconnectGraceDuration() time.Duration {
	return time.Duration(c.ReconnectGrace) * time.Minute
}

// RoomTimeoutDuration 返回房间等待超时时长
func (c *GameConfig) RoomTimeoutDuration() time.Duration {
	return time.Duration(c.RoomTimeout) * time.Minute
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 1841
	}
	if cfg.Server.MaxConnections == 0 {
		cfg.Server.MaxConnections = 4096
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Game.TurnTimeout == 0 {
		cfg.Game.TurnTimeout = 60
	}
	if cfg.Game.SwapTimeout == 0 {
		cfg.Game.SwapTimeout = 30
	}
	if cfg.Game.ReconnectGrace == 0 {
		cfg.Game.ReconnectGrace = 15
	}
	if cfg.Game.RoomTimeout == 0 {
		cfg.Game.RoomTimeout = 10
	}
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
