package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ProxyConfig struct {
	Mode   string   `yaml:"mode"` // disabled|env|list
	List   []string `yaml:"list"`
	Bypass []string `yaml:"bypass"`
}

type Root struct {
	Env   string      `yaml:"env"`
	Proxy ProxyConfig `yaml:"proxy"`
	Local Config      `yaml:"local"`
	Dev   Config      `yaml:"dev"`
	Prod  Config      `yaml:"prod"`
}

type Config struct {
	Env string `yaml:"-"`

	Log struct {
		Level     string `yaml:"level"`
		Format    string `yaml:"format"`
		AddSource bool   `yaml:"add_source"`
	} `yaml:"log"`

	Server struct {
		Host        string   `yaml:"host"`
		Port        int      `yaml:"port"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Backend struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"backend"`

	Storage struct {
		BaseURL string `yaml:"base_url"`
		S3      struct {
			Enabled   bool   `yaml:"enabled"`
			Bucket    string `yaml:"bucket"`
			Region    string `yaml:"region"`
			Endpoint  string `yaml:"endpoint"`
			PathStyle bool   `yaml:"path_style"`
			// secrets come from the environment only
			AccessKey string `yaml:"-"`
			SecretKey string `yaml:"-"`
		} `yaml:"s3"`
	} `yaml:"storage"`

	Images struct {
		CheckTimeoutSeconds int `yaml:"check_timeout_seconds"`
		Workers             int `yaml:"workers"`
	} `yaml:"images"`

	Pagination struct {
		PerPage  int `yaml:"per_page"`
		MaxPages int `yaml:"max_pages"`
	} `yaml:"pagination"`

	HTTP struct {
		TimeoutSeconds       int `yaml:"timeout_seconds"`
		UploadTimeoutSeconds int `yaml:"upload_timeout_seconds"`
		Retries              int `yaml:"retries"`
		Workers              int `yaml:"workers"`
		Breaker              struct {
			Enabled            bool `yaml:"enabled"`
			MaxFailures        int  `yaml:"max_failures"`
			OpenTimeoutSeconds int  `yaml:"open_timeout_seconds"`
		} `yaml:"breaker"`
	} `yaml:"http"`

	Session struct {
		Backend string `yaml:"backend"` // file|sqlite|memory
		Path    string `yaml:"path"`
	} `yaml:"session"`

	Stores struct {
		LastCallWins bool `yaml:"last_call_wins"`
	} `yaml:"stores"`

	Metrics struct {
		Enabled   bool   `yaml:"enabled"`
		Namespace string `yaml:"namespace"`
	} `yaml:"metrics"`

	CLI struct {
		OutputFile string `yaml:"output_file"`
	} `yaml:"cli"`

	Proxy ProxyConfig `yaml:"proxy"`
}

// Environment overrides. The VITE_ names are read as fallbacks so an existing
// frontend .env works unchanged.
const (
	EnvEnv         = "STOREADMIN_ENV"
	EnvBackendURL  = "STOREADMIN_BACKEND_URL"
	EnvStorageURL  = "STOREADMIN_STORAGE_URL"
	EnvSessionPath = "STOREADMIN_SESSION_PATH"
	EnvS3AccessKey = "STOREADMIN_S3_ACCESS_KEY"
	EnvS3SecretKey = "STOREADMIN_S3_SECRET_KEY"
)

// Load reads .env (if any) into the process environment, then the YAML file,
// picks the profile named by env and applies environment overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

func Parse(b []byte) (*Config, error) {
	var root Root
	if err := yaml.Unmarshal(b, &root); err != nil {
		return nil, err
	}

	env := strings.TrimSpace(strings.ToLower(root.Env))
	if v := strings.TrimSpace(os.Getenv(EnvEnv)); v != "" {
		env = strings.ToLower(v)
	}
	if env == "" {
		env = "local"
	}

	var p Config
	switch env {
	case "local":
		p = root.Local
	case "dev":
		p = root.Dev
	case "prod":
		p = root.Prod
	default:
		return nil, fmt.Errorf("unknown env=%q (expected local|dev|prod)", env)
	}
	p.Env = env

	if isProxyEmpty(p.Proxy) && !isProxyEmpty(root.Proxy) {
		p.Proxy = root.Proxy
	}

	applyEnv(&p)
	applyDefaults(&p)
	return &p, nil
}

func applyEnv(p *Config) {
	if v := firstEnv(EnvBackendURL, "VITE_BACKEND_URL"); v != "" {
		p.Backend.BaseURL = v
	}
	if v := firstEnv(EnvStorageURL, "VITE_YANDEX_STORAGE_URL"); v != "" {
		p.Storage.BaseURL = v
	}
	if v := firstEnv(EnvSessionPath); v != "" {
		p.Session.Path = v
	}
	p.Storage.S3.AccessKey = firstEnv(EnvS3AccessKey, "AWS_ACCESS_KEY_ID")
	p.Storage.S3.SecretKey = firstEnv(EnvS3SecretKey, "AWS_SECRET_ACCESS_KEY")
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func isProxyEmpty(px ProxyConfig) bool {
	return strings.TrimSpace(px.Mode) == "" && len(px.List) == 0
}

func applyDefaults(p *Config) {
	p.Backend.BaseURL = strings.TrimRight(p.Backend.BaseURL, "/")
	if p.Backend.BaseURL == "" {
		p.Backend.BaseURL = "http://127.0.0.1:8000/api"
	}
	p.Storage.BaseURL = strings.TrimRight(p.Storage.BaseURL, "/")

	if p.Server.Host == "" {
		p.Server.Host = "127.0.0.1"
	}
	if p.Server.Port == 0 {
		p.Server.Port = 7891
	}

	if p.Images.CheckTimeoutSeconds <= 0 {
		p.Images.CheckTimeoutSeconds = 5
	}
	if p.Images.Workers <= 0 {
		p.Images.Workers = 8
	}

	if p.Pagination.PerPage <= 0 {
		p.Pagination.PerPage = 5
	}
	if p.Pagination.MaxPages <= 0 {
		p.Pagination.MaxPages = 500
	}

	if p.HTTP.TimeoutSeconds <= 0 {
		p.HTTP.TimeoutSeconds = 30
	}
	if p.HTTP.UploadTimeoutSeconds <= 0 {
		p.HTTP.UploadTimeoutSeconds = 30
	}
	if p.HTTP.Retries < 0 {
		p.HTTP.Retries = 0
	}
	if p.HTTP.Workers <= 0 {
		p.HTTP.Workers = 10
	}
	if p.HTTP.Breaker.MaxFailures <= 0 {
		p.HTTP.Breaker.MaxFailures = 5
	}
	if p.HTTP.Breaker.OpenTimeoutSeconds <= 0 {
		p.HTTP.Breaker.OpenTimeoutSeconds = 30
	}

	p.Session.Backend = strings.ToLower(strings.TrimSpace(p.Session.Backend))
	if p.Session.Backend == "" {
		p.Session.Backend = "file"
	}
	if p.Session.Path == "" {
		switch p.Session.Backend {
		case "sqlite":
			p.Session.Path = "./state/session.db"
		default:
			p.Session.Path = "./state/session.json"
		}
	}

	if p.Metrics.Namespace == "" {
		p.Metrics.Namespace = "storeadmin"
	}

	if p.Log.Level == "" {
		if p.Env == "prod" {
			p.Log.Level = "info"
		} else {
			p.Log.Level = "debug"
		}
	}
	if p.Log.Format == "" {
		if p.Env == "prod" {
			p.Log.Format = "json"
		} else {
			p.Log.Format = "text"
		}
	}

	p.Proxy.Mode = strings.ToLower(strings.TrimSpace(p.Proxy.Mode))
	if p.Proxy.Mode == "" {
		p.Proxy.Mode = "env"
	}

	if len(p.Proxy.List) > 0 {
		clean := make([]string, 0, len(p.Proxy.List))
		for _, s := range p.Proxy.List {
			s = strings.TrimSpace(s)
			if s != "" {
				clean = append(clean, s)
			}
		}
		p.Proxy.List = clean
	}
}
