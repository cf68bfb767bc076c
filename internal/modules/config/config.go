package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	chatIDTelegramENV = "TELEGRAM_CHAT_ID"
	databaseDSN       = "DATABASE_DSN"
)

// Config — статическая конфигурация процесса: токены, DSN, пути.
// Мутабельные настройки мониторинга живут отдельно (modules/settings).
type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"` // чат, куда шлём сигналы
	} `yaml:"telegram"`
	DB       string `yaml:"db_dsn"` // пусто — история сигналов отключена
	LogLevel string `yaml:"log_level"`

	// Файл мутабельных настроек монитора (viper)
	MonitorFile string `yaml:"monitor_file"`

	// Адрес health-эндпоинтов (/livez, /readyz, /healthz)
	HealthAddr string `yaml:"health_addr"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`
}

func NewConfig() (*Config, error) {
	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		LogLevel:    getenvDefault("LOG_LEVEL", "info"),
		MonitorFile: getenvDefault("MONITOR_CONFIG", "configs/monitor.yaml"),
		HealthAddr:  getenvDefault("HEALTH_ADDR", ":8080"),
	}
	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	if token := os.Getenv(tokenTelegramENV); token != "" {
		config.Telegram.Token = token
	}
	if chat := os.Getenv(chatIDTelegramENV); chat != "" {
		if id, err := strconv.ParseInt(chat, 10, 64); err == nil {
			config.Telegram.ChatID = id
		}
	}
	if dsn := os.Getenv(databaseDSN); dsn != "" {
		config.DB = dsn
	}

	return &config, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
