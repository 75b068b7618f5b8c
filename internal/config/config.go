package config

import (
	"fmt"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Google   GoogleConfig   `mapstructure:"google"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	LLM      LLMConfig      `mapstructure:"llm"`
	OpenAI   ModelConfig    `mapstructure:"openai"`
	Gemini   ModelConfig    `mapstructure:"gemini"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	// Mode gin 运行模式，"release" 关掉调试输出，其它值走 debug
	Mode string `mapstructure:"mode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type DatabaseConfig struct {
	// DSN 为空时走内存仓储（本地开发用，重启即丢）
	DSN string `mapstructure:"dsn"`
}

type GoogleConfig struct {
	ClientID string `mapstructure:"client_id"`
}

// LLMConfig 决定反馈生成走哪家模型，openai / gemini 二选一
type LLMConfig struct {
	Provider string `mapstructure:"provider"`
}

type ModelConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type AuthConfig struct {
	// AllowedEmails 邮箱白名单，留空表示不限制
	AllowedEmails []string `mapstructure:"allowed_emails"`
}

// LoadConfig 读取配置文件
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config") // 配置文件名 (不带扩展名)
	viper.SetConfigType("yaml")   // 文件类型
	viper.AddConfigPath(".")      // 查找路径：根目录

	// 支持环境变量覆盖 (例如在 Docker 中)
	// 比如设置 TOKIMEKI_OPENAI_API_KEY 可以覆盖 yaml 里的值
	viper.SetEnvPrefix("TOKIMEKI")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	return &cfg, nil
}
