package arbor

import (
	"encoding/json"
	"os"
	"path"
	"strings"
	"time"
)

type ArborConfig struct {
	FilePath string `json:"-"`
	// the version of the configuration file. currently only 0 is
	// allowed.
	Version int `json:"version"`

	// http host name. used when generating absolute links (e.g. the
	// snippet shown on the widget page).
	HttpHostName string `json:"hostName"`
	properHttpHostName string

	BindAddress string `json:"bindAddress"`
	BindPort int `json:"bindPort"`
	StaticAssetDirectory string `json:"staticAssetDirectory"`

	// inbound requests allowed per second per ip. 0 disables the
	// limiter.
	MaxRequestInSecond float64 `json:"maxRequestInSecond"`

	API ArborAPIConfig `json:"api"`
	Default ArborBrowserDefaultConfig `json:"default"`

	// bcp 47 tag used when sorting names in the tree.
	Locale string `json:"locale"`
	// chroma style name.
	HighlightStyle string `json:"highlightStyle"`

	Cache ArborCacheConfig `json:"cache"`
	Database ArborDatabaseConfig `json:"database"`
	Log ArborLogConfig `json:"log"`
}

type ArborAPIConfig struct {
	// base url of the repository api, e.g. "https://api.github.com".
	BaseURL string `json:"baseURL"`
	// base url of the human-facing site, e.g. "https://github.com".
	// used for the "view on remote" link of files too large to show.
	HTMLBaseURL string `json:"htmlBaseURL"`
	TimeoutSecond int `json:"timeoutSecond"`
	UserAgent string `json:"userAgent"`
}

// defaults for browser instances that don't specify these themselves.
type ArborBrowserDefaultConfig struct {
	Branch string `json:"branch"`
	MaxFileSize int64 `json:"maxFileSize"`
	ExcludePaths []string `json:"excludePaths"`
}

type ArborCacheConfig struct {
	// cache type. currently supports:
	// + "none"
	// + "memory"
	// + redis-like dbs: "redis", "keydb", "valkey"
	// + "memcached"
	Type string `json:"type"`
	// "host:port". not used for "memory" and "none".
	Host string `json:"host"`
	// not used for "memory", "none" and "memcached".
	UserName string `json:"userName"`
	Password string `json:"password"`
	DatabaseNumber int `json:"databaseNumber"`
	KeyPrefix string `json:"keyPrefix"`
	TimeoutSecond int `json:"timeoutSecond"`
}

type ArborDatabaseConfig struct {
	// database type. "sqlite" or "postgres".
	Type string `json:"type"`
	// path to the database file. valid only when type is sqlite;
	// relative paths are relative to the config file.
	Path string `json:"path"`
	properPath string
	// host (and port) of the database server. has no effect when
	// type is sqlite.
	URL string `json:"url"`
	UserName string `json:"userName"`
	DatabaseName string `json:"databaseName"`
	Password string `json:"password"`
	// table prefix - in case you need to share a database with
	// other applications.
	TablePrefix string `json:"tablePrefix"`
}

type ArborLogConfig struct {
	// debug, info, warn, error
	Level string `json:"level"`
	// json, console
	Format string `json:"format"`
	// stdout, stderr or a file path.
	OutputPath string `json:"outputPath"`
}

var DefaultExcludePaths = []string{
	".git/", "node_modules", "__pycache__", ".next/", "dist/", "build/", "target/", "vendor/",
}

const (
	DEFAULT_BRANCH = "main"
	FALLBACK_BRANCH = "master"
	DEFAULT_MAX_FILE_SIZE = 100000
)

func DefaultConfig() *ArborConfig {
	return &ArborConfig{
		Version: 0,
		BindAddress: "127.0.0.1",
		BindPort: 8000,
		StaticAssetDirectory: "",
		MaxRequestInSecond: 10,
		API: ArborAPIConfig{
			BaseURL: "https://api.github.com",
			HTMLBaseURL: "https://github.com",
			TimeoutSecond: 30,
			UserAgent: "arbor",
		},
		Default: ArborBrowserDefaultConfig{
			Branch: DEFAULT_BRANCH,
			MaxFileSize: DEFAULT_MAX_FILE_SIZE,
			ExcludePaths: append([]string{}, DefaultExcludePaths...),
		},
		Locale: "und",
		HighlightStyle: "github",
		Cache: ArborCacheConfig{
			Type: "memory",
			KeyPrefix: "arbor",
			TimeoutSecond: 300,
		},
		Database: ArborDatabaseConfig{
			Type: "sqlite",
			Path: "arbor.db",
			TablePrefix: "arbor",
		},
		Log: ArborLogConfig{
			Level: "info",
			Format: "console",
		},
	}
}

func (cfg *ArborConfig) ProperHTTPHostName() string {
	return cfg.properHttpHostName
}

func (cfg *ArborConfig) ProperDatabasePath() string {
	return cfg.Database.properPath
}

func (cfg *ArborConfig) APITimeout() time.Duration {
	if cfg.API.TimeoutSecond <= 0 { return 30 * time.Second }
	return time.Duration(cfg.API.TimeoutSecond) * time.Second
}

func (cfg *ArborConfig) CacheTimeout() time.Duration {
	if cfg.Cache.TimeoutSecond <= 0 { return 5 * time.Minute }
	return time.Duration(cfg.Cache.TimeoutSecond) * time.Second
}

func CreateConfigFile(p string) error {
	f, err := os.OpenFile(
		p,
		os.O_CREATE|os.O_EXCL|os.O_WRONLY|os.O_TRUNC,
		0644,
	)
	if err != nil { return err }
	defer f.Close()
	marshalRes, err := json.MarshalIndent(DefaultConfig(), "", "    ")
	if err != nil { return err }
	_, err = f.Write(marshalRes)
	return err
}

// fills in whatever the file left empty and recomputes the derived
// fields.
func (c *ArborConfig) RecalculateProperPath() error {
	c.properHttpHostName = c.HttpHostName
	if strings.TrimSpace(c.HttpHostName) != "" {
		if !strings.HasPrefix(c.properHttpHostName, "http://") && !strings.HasPrefix(c.properHttpHostName, "https://") {
			c.properHttpHostName = "http://" + c.properHttpHostName
		}
		c.properHttpHostName = strings.TrimSuffix(c.properHttpHostName, "/")
	} else { c.properHttpHostName = "" }

	if strings.TrimSpace(c.Default.Branch) == "" { c.Default.Branch = DEFAULT_BRANCH }
	if c.Default.MaxFileSize <= 0 { c.Default.MaxFileSize = DEFAULT_MAX_FILE_SIZE }
	if c.Default.ExcludePaths == nil {
		c.Default.ExcludePaths = append([]string{}, DefaultExcludePaths...)
	}
	if strings.TrimSpace(c.Locale) == "" { c.Locale = "und" }
	if strings.TrimSpace(c.Cache.Type) == "" { c.Cache.Type = "memory" }

	c.Database.properPath = ""
	if c.Database.Type == "sqlite" {
		if path.IsAbs(c.Database.Path) || c.FilePath == "" {
			c.Database.properPath = c.Database.Path
		} else {
			c.Database.properPath = path.Join(path.Dir(c.FilePath), c.Database.Path)
		}
	}
	return nil
}

func LoadConfigFile(p string) (*ArborConfig, error) {
	s, err := os.ReadFile(p)
	if err != nil { return nil, err }
	c := DefaultConfig()
	err = json.Unmarshal(s, c)
	if err != nil { return nil, err }
	c.FilePath = p
	err = c.RecalculateProperPath()
	if err != nil { return nil, err }
	return c, nil
}

func (cfg *ArborConfig) Sync() error {
	p := cfg.FilePath
	s, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil { return err }
	st, err := os.Stat(p)
	if err != nil && !os.IsNotExist(err) { return err }
	var f *os.File
	if os.IsNotExist(err) {
		f, err = os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	} else {
		f, err = os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, st.Mode())
	}
	if err != nil { return err }
	defer f.Close()
	_, err = f.Write(s)
	if err != nil { return err }
	return f.Sync()
}
