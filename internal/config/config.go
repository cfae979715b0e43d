package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"sync"
)

type Config struct {
	Env      string `yaml:"env" env:"ENV" env-default:"local"`
	District string `yaml:"district" env-default:"Waterloo School District"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env:"TG_API_KEY" env-default:""`
		AdminId int64  `yaml:"admin_id" env:"TG_ADMIN_ID" env-default:"0"`
		BotName string `yaml:"bot_name" env-default:"BandDeskBot"`
		Enabled bool   `yaml:"enabled" env-default:"false"`
	} `yaml:"telegram"`
	Mongo struct {
		Host       string `yaml:"host" env:"MONGO_HOST" env-default:"127.0.0.1"`
		Port       string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
		User       string `yaml:"user" env:"MONGO_USER" env-default:""`
		Password   string `yaml:"password" env:"MONGO_PASSWORD" env-default:""`
		Database   string `yaml:"database" env:"MONGO_DATABASE" env-default:"banddesk"`
		ReplicaSet string `yaml:"replica_set" env:"MONGO_REPLICA_SET" env-default:""`
	} `yaml:"mongo"`
	Auth struct {
		AdminIdentity  string `yaml:"admin_identity" env:"ADMIN_IDENTITY" env-default:""`
		BootstrapToken string `yaml:"bootstrap_token" env:"BOOTSTRAP_TOKEN" env-default:""`
	} `yaml:"auth"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env:"PORT" env-default:"9200"`
	} `yaml:"listen"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
