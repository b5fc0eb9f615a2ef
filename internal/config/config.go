package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"8000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"75"` // 需要大于 LLM 的超时时间
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"60"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	LLM struct {
		BaseURL          string `env:"FARM_BASE_URL" envDefault:"https://aoai-farm.bosch-temp.com/api/google/v1"`
		APIKey           string `env:"FARM_API_KEY"`
		DefaultModel     string `env:"DEFAULT_MODEL" envDefault:"claude-sonnet-4-5@20250929"`
		DefaultMaxTokens int    `env:"DEFAULT_MAX_TOKENS" envDefault:"4096"`
		Timeout          int    `env:"TIMEOUT" envDefault:"60"`
	} `envPrefix:"LLM_"`
	Reference struct {
		Dir                 string `env:"DIR" envDefault:"./data"`
		CareerFrameworkFile string `env:"CAREER_FRAMEWORK_FILE" envDefault:"CareerFramework.json"`
		TechMasterDataFile  string `env:"TECH_MASTER_DATA_FILE" envDefault:"TechMasterData.json"`
		SkillsetsFile       string `env:"SKILLSETS_FILE" envDefault:"Skillsets.json"`
	} `envPrefix:"REFERENCE_"`
	Import struct {
		EmailDomain         string `env:"EMAIL_DOMAIN" envDefault:"bosch.com"`
		PlaceholderPassword string `env:"PLACEHOLDER_PASSWORD" envDefault:"password123"`
		MaxUploadSize       int64  `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"` // 32 MiB
		ReportExpiration    int    `env:"REPORT_EXPIRATION" envDefault:"168"`    // 小时
	} `envPrefix:"IMPORT_"`
	Redis struct {
		Host             string `env:"HOST" envDefault:"localhost"`
		Port             int    `env:"PORT" envDefault:"6379"`
		Password         string `env:"PASSWORD"`
		ConnectTimeout   int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationTimeout int    `env:"OPERATION_TIMEOUT" envDefault:"5"`
	} `envPrefix:"REDIS_"`
	RabbitMQ struct {
		DSN            string `env:"DSN"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
		Queue          string `env:"QUEUE" envDefault:"email_queue"`
	} `envPrefix:"RABBITMQ_"`
	Email struct {
		TemplateDir string `env:"TEMPLATE_DIR" envDefault:"./templates"`
		SMTP        struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}

// 未配置 RabbitMQ 时不发送通知邮件
func (c *Config) NotificationsEnabled() bool {
	return c.RabbitMQ.DSN != ""
}
