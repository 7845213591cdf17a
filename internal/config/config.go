package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"simhockey/youtube-updater/internal/models"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

// DefaultEnvFile is read when no env file is given on the command line
const DefaultEnvFile = ".env.local"

// Config holds all application configuration
type Config struct {
	// Database
	DatabaseDriver   string `envconfig:"DATABASE_DRIVER" default:"mysql"`
	DatabaseHost     string `envconfig:"MYSQL_HOST" required:"true"`
	DatabasePort     int    `envconfig:"MYSQL_PORT" default:"3306"`
	DatabaseName     string `envconfig:"MYSQL_DATABASE" required:"true"`
	DatabaseUser     string `envconfig:"MYSQL_USER" required:"true"`
	DatabasePassword string `envconfig:"MYSQL_PASSWORD" required:"true"`

	// YouTube Data API
	YouTubeAPIKey  string        `envconfig:"NEXT_PUBLIC_YOUTUBE_API_KEY" required:"true"`
	YouTubeBaseURL string        `envconfig:"YOUTUBE_API_URL" default:"https://www.googleapis.com/youtube/v3/search"`
	YouTubeReferer string        `envconfig:"YOUTUBE_REFERER" default:"index.simulationhockey.com"`
	YouTubeTimeout time.Duration `envconfig:"YOUTUBE_TIMEOUT" default:"30s"`

	// Channels
	SHLChannelID   string `envconfig:"NEXT_PUBLIC_SHL_CHANNEL_ID" required:"true"`
	SMJHLChannelID string `envconfig:"NEXT_PUBLIC_SMJHL_CHANNEL_ID" required:"true"`
	WJCChannelID   string `envconfig:"NEXT_PUBLIC_WJC_CHANNEL_ID"`
	IIHFChannelID  string `envconfig:"NEXT_PUBLIC_IIHF_CHANNEL_ID"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"production"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
	LogFile  string `envconfig:"LOG_FILE" default:"updater.log"`

	// Scheduling and monitoring
	Schedule       string `envconfig:"UPDATER_SCHEDULE" default:""`
	MetricsPort    int    `envconfig:"METRICS_PORT" default:"9090"`
	PushgatewayURL string `envconfig:"PUSHGATEWAY_URL" default:""`

	// EnvFile is the file the configuration was read from
	EnvFile string `ignored:"true"`

	fallbacks []models.League
}

// Load reads envFile into the environment and processes it into a Config.
// Variables already present in the environment take precedence over the file.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	cfg.EnvFile = envFile

	// The WJC and IIHF channels historically shared the SMJHL key
	if cfg.WJCChannelID == "" {
		cfg.WJCChannelID = cfg.SMJHLChannelID
		cfg.fallbacks = append(cfg.fallbacks, models.LeagueWJC)
	}
	if cfg.IIHFChannelID == "" {
		cfg.IIHFChannelID = cfg.SMJHLChannelID
		cfg.fallbacks = append(cfg.fallbacks, models.LeagueIIHF)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.YouTubeAPIKey == "" {
		return fmt.Errorf("NEXT_PUBLIC_YOUTUBE_API_KEY is required")
	}

	switch strings.ToLower(c.DatabaseDriver) {
	case "mysql", "pgx":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be mysql or pgx, got %q", c.DatabaseDriver)
	}

	if c.Schedule != "" {
		if _, err := cron.ParseStandard(c.Schedule); err != nil {
			return fmt.Errorf("UPDATER_SCHEDULE %q is not a valid cron expression: %w", c.Schedule, err)
		}
	}

	return nil
}

// ChannelIDs returns the channel id configured for each league
func (c *Config) ChannelIDs() map[models.League]string {
	return map[models.League]string{
		models.LeagueSHL:   c.SHLChannelID,
		models.LeagueSMJHL: c.SMJHLChannelID,
		models.LeagueWJC:   c.WJCChannelID,
		models.LeagueIIHF:  c.IIHFChannelID,
	}
}

// LegacyChannelFallbacks lists the leagues whose channel id was not set and
// fell back to the SMJHL channel
func (c *Config) LegacyChannelFallbacks() []models.League {
	return c.fallbacks
}

// DatabaseAddr returns the database address
func (c *Config) DatabaseAddr() string {
	return net.JoinHostPort(c.DatabaseHost, strconv.Itoa(c.DatabasePort))
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsScheduled returns true if the updater should run on a cron schedule
func (c *Config) IsScheduled() bool {
	return c.Schedule != ""
}
