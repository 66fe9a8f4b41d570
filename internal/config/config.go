package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env           string              `yaml:"env" env:"ENV" env-default:"local"`
	DSN           string              `yaml:"dsn" env:"DATABASE_URL" env-required:"true"`
	HTTP          HTTPConfig          `yaml:"http"`
	ObjectStorage ObjectStorageConfig `yaml:"object_storage"`
	Redis         RedisConf           `yaml:"redis"`
	HeroCacheTTL  time.Duration       `yaml:"hero_cache_ttl" env-default:"10m"`
	WhatsAppPhone string              `yaml:"whatsapp_phone" env:"WHATSAPP_PHONE"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port" env-default:"8080"`
}

// ObjectStorageConfig points at an S3-compatible bucket (Cloudflare R2 or
// MinIO). PublicBaseURL is the CDN base used to build public image URLs.
type ObjectStorageConfig struct {
	Endpoint      string        `yaml:"endpoint" env:"R2_ENDPOINT" env-required:"true"`
	AccessKeyID   string        `yaml:"access_key_id" env:"R2_ACCESS_KEY_ID" env-required:"true"`
	SecretKey     string        `yaml:"secret_key" env:"R2_SECRET_ACCESS_KEY" env-required:"true"`
	Bucket        string        `yaml:"bucket" env:"R2_BUCKET" env-required:"true"`
	PublicBaseURL string        `yaml:"public_base_url" env:"R2_PUBLIC_BASE"`
	UseSSL        bool          `yaml:"use_ssl" env-default:"true"`
	SignTTL       time.Duration `yaml:"sign_ttl" env-default:"5m"`
}

type RedisConf struct {
	Enabled       bool   `yaml:"enabled" env-default:"false"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redispassword"`
	RedisDB       int    `yaml:"redis_db"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
