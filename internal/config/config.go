package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the working directory.
const FileName = "acctgen.config.json"

type Config struct {
	Version      string       `json:"version" mapstructure:"version"`
	Organization Organization `json:"organization" mapstructure:"organization"`
	Members      Members      `json:"members" mapstructure:"members"`
	Hash         Hash         `json:"hash" mapstructure:"hash"`
	Output       Output       `json:"output" mapstructure:"output"`
	Studio       Studio       `json:"studio" mapstructure:"studio"`
	Log          Log          `json:"log" mapstructure:"log"`
}

// Organization holds the values pre-filled into the editor's code fields.
type Organization struct {
	PrefCode string `json:"pref_code" mapstructure:"pref_code"`
	CityCode string `json:"city_code" mapstructure:"city_code"`
}

// Members holds the placeholder contact data shared by every generated member.
type Members struct {
	MailDomain string `json:"mail_domain" mapstructure:"mail_domain" validate:"required,hostname_rfc1123"`
	ZipCode    string `json:"zip_code" mapstructure:"zip_code"`
	CityName   string `json:"city_name" mapstructure:"city_name"`
	Address    string `json:"address" mapstructure:"address"`
	Phone      string `json:"phone" mapstructure:"phone"`
}

type Hash struct {
	Cost            int    `json:"cost" mapstructure:"cost" validate:"min=4,max=31"`
	DefaultPassword string `json:"default_password" mapstructure:"default_password" validate:"required,max=72"`
	Workers         int    `json:"workers" mapstructure:"workers" validate:"min=1,max=256"`
}

type Output struct {
	Format string `json:"format" mapstructure:"format" validate:"oneof=pretty compact"`
	Dir    string `json:"dir" mapstructure:"dir" validate:"required"`
}

type Studio struct {
	Port    int  `json:"port" mapstructure:"port" validate:"min=1,max=65535"`
	Browser bool `json:"browser" mapstructure:"browser"`
}

type Log struct {
	Level string `json:"level" mapstructure:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
	JSON  bool   `json:"json" mapstructure:"json"`
}

// SetDefaults registers defaults on v so that environment variables can
// override keys that are missing from the config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("version", "1")
	v.SetDefault("organization.pref_code", "13")
	v.SetDefault("organization.city_code", "13101")
	v.SetDefault("members.mail_domain", "kankouyohou.com")
	v.SetDefault("members.zip_code", "105-0001")
	v.SetDefault("members.city_name", "港区")
	v.SetDefault("members.address", "虎ノ門3-1-1")
	v.SetDefault("members.phone", "012-345-6789")
	v.SetDefault("hash.cost", 10)
	v.SetDefault("hash.default_password", "password")
	v.SetDefault("hash.workers", runtime.NumCPU())
	v.SetDefault("output.format", "pretty")
	v.SetDefault("output.dir", "sql")
	v.SetDefault("studio.port", 5555)
	v.SetDefault("studio.browser", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

// Load unmarshals the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Hash.Workers <= 0 {
		cfg.Hash.Workers = runtime.NumCPU()
	}

	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) EnsureOutputDir() error {
	if c.Output.Dir == "" || c.Output.Dir == "." {
		return nil
	}
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.Output.Dir, err)
	}
	return nil
}

// IsInitialized reports whether a config file exists in the working directory.
func IsInitialized() bool {
	_, err := os.Stat(FileName)
	return err == nil
}
