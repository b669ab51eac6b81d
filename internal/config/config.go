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
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 游戏配置
type GameConfig struct {
	NopeWindow  int `yaml:"nope_window"`  // 否决窗口时长（秒）
	MinPlayers  int `yaml:"min_players"`  // 每局最少人数
	MaxPlayers  int `yaml:"max_players"`  // 每局最多人数
	RoomTimeout int `yaml:"room_timeout"` // 房间等待超时（分钟）
}

// NopeWindowDuration 返回否决窗口时长
func (c *GameConfig) NopeWindowDuration() time.Duration {
	return time.Duration(c.NopeWindow) * time.Second
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

	// 设置默认值
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 1780
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Game.NopeWindow == 0 {
		cfg.Game.NopeWindow = 7
	}
	if cfg.Game.MinPlayers == 0 {
		cfg.Game.MinPlayers = 2
	}
	if cfg.Game.MaxPlayers == 0 {
		cfg.Game.MaxPlayers = 5
	}
	if cfg.Game.RoomTimeout == 0 {
		cfg.Game.RoomTimeout = 10
	}

	return &cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 1780,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Game: GameConfig{
			NopeWindow:  7,
			MinPlayers:  2,
			MaxPlayers:  5,
			RoomTimeout: 10,
		},
	}
}
