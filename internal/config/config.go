package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/spotter-dz/spotter/internal/engine"
	"github.com/spotter-dz/spotter/pkg/core"
)

// ConfigName is the file Load looks for in the config directory.
const ConfigName = "spotter.cfg.json"

// StorageConfig selects and configures the calculation history backend.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// SQLiteConfig holds SQLite backend settings. An empty Path keeps the
// database in memory, optionally dumped to DumpPath every DumpInterval.
type SQLiteConfig struct {
	Path         string        `json:"path" mapstructure:"path"`
	DumpPath     string        `json:"dumpPath" mapstructure:"dumpPath"`
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
}

// DBConfig holds Postgres connection settings.
type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// DSN returns the Postgres connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		c.Host, c.Port, c.Username, c.Password, c.Database)
}

// InfluxConfig holds InfluxDB telemetry settings.
type InfluxConfig struct {
	Enabled    bool   `json:"enabled" mapstructure:"enabled"`
	Protocol   string `json:"protocol" mapstructure:"protocol"`
	Host       string `json:"host" mapstructure:"host"`
	Port       string `json:"port" mapstructure:"port"`
	Token      string `json:"token" mapstructure:"token"`
	Org        string `json:"org" mapstructure:"org"`
	Bucket     string `json:"bucket" mapstructure:"bucket"`
	BackupPath string `json:"backupPath" mapstructure:"backupPath"`
}

// URL returns the server address.
func (c InfluxConfig) URL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Host, c.Port)
}

// OTelConfig holds the OpenTelemetry log export settings. LogWriter is the
// path of the file JSON log records are written to.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	LogWriter    string        `json:"logWriter" mapstructure:"logWriter"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// CacheConfig sizes the result cache. Size 0 disables caching.
type CacheConfig struct {
	Size int `json:"size" mapstructure:"size"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./spotterlogs")

	viper.SetDefault("engine.resolution", 50.0)
	viper.SetDefault("engine.coverageTolerance", 500.0)
	viper.SetDefault("engine.pattern.offsetAngle", 0.0)

	viper.SetDefault("jump.jumpAltitude", 4000.0)
	viper.SetDefault("jump.aircraftSpeed", 36.0)
	viper.SetDefault("jump.freefallSpeed", 55.56)
	viper.SetDefault("jump.openingAltitude", 1000.0)
	viper.SetDefault("jump.canopyDescentRate", 5.0)
	viper.SetDefault("jump.glideRatio", 2.5)
	viper.SetDefault("jump.setupAltitude", 300.0)
	viper.SetDefault("jump.numberOfGroups", 1)
	viper.SetDefault("jump.timeBetweenGroups", 10.0)

	viper.SetDefault("cache.size", 128)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.sqlite.path", "")
	viper.SetDefault("storage.sqlite.dumpPath", "")
	viper.SetDefault("storage.sqlite.dumpInterval", "1m")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "spotter")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "spotter")
	viper.SetDefault("influx.bucket", "calculations")
	viper.SetDefault("influx.backupPath", "./spotterlogs/influx_backup.lp.gz")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "spotter")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.logWriter", "./spotterlogs/otel.log")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", false)
}

// Load reads configuration from the JSON file in configDir and sets
// default values.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName(ConfigName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// LoadDefaults registers defaults without reading a file.
func LoadDefaults() {
	setDefaults()
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a duration config value.
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// GetEngineConfig returns the numeric options for the calculation engine.
func GetEngineConfig() engine.Options {
	opts := engine.DefaultOptions()
	opts.Resolution = viper.GetFloat64("engine.resolution")
	opts.CoverageTolerance = viper.GetFloat64("engine.coverageTolerance")
	opts.Pattern.OffsetAngle = viper.GetFloat64("engine.pattern.offsetAngle")
	return opts
}

// GetDefaultJump returns the configured default jump parameters.
func GetDefaultJump() core.JumpParameters {
	return core.JumpParameters{
		JumpAltitude:      viper.GetFloat64("jump.jumpAltitude"),
		AircraftSpeed:     viper.GetFloat64("jump.aircraftSpeed"),
		FreefallSpeed:     viper.GetFloat64("jump.freefallSpeed"),
		OpeningAltitude:   viper.GetFloat64("jump.openingAltitude"),
		CanopyDescentRate: viper.GetFloat64("jump.canopyDescentRate"),
		GlideRatio:        viper.GetFloat64("jump.glideRatio"),
		SetupAltitude:     viper.GetFloat64("jump.setupAltitude"),
		NumberOfGroups:    viper.GetInt("jump.numberOfGroups"),
		TimeBetweenGroups: viper.GetFloat64("jump.timeBetweenGroups"),
	}
}

// GetStorageConfig returns the storage backend configuration.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		SQLite: SQLiteConfig{
			Path:         viper.GetString("storage.sqlite.path"),
			DumpPath:     viper.GetString("storage.sqlite.dumpPath"),
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
		},
	}
}

// GetDBConfig returns the Postgres connection settings.
func GetDBConfig() DBConfig {
	return DBConfig{
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		Username: viper.GetString("db.username"),
		Password: viper.GetString("db.password"),
		Database: viper.GetString("db.database"),
	}
}

// GetInfluxConfig returns the InfluxDB telemetry settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:    viper.GetBool("influx.enabled"),
		Protocol:   viper.GetString("influx.protocol"),
		Host:       viper.GetString("influx.host"),
		Port:       viper.GetString("influx.port"),
		Token:      viper.GetString("influx.token"),
		Org:        viper.GetString("influx.org"),
		Bucket:     viper.GetString("influx.bucket"),
		BackupPath: viper.GetString("influx.backupPath"),
	}
}

// GetOTelConfig returns the OpenTelemetry log export settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		LogWriter:    viper.GetString("otel.logWriter"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetCacheConfig returns the result cache settings.
func GetCacheConfig() CacheConfig {
	return CacheConfig{Size: viper.GetInt("cache.size")}
}
