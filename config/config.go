package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageS3       = "s3"
)

// Config struct to hold the configuration settings
type Config struct {
	Discord       DiscordConfig       `yaml:"discord"`
	Storage       StorageConfig       `yaml:"storage"`
	EventBus      EventBusConfig      `yaml:"eventbus"`
	Observability ObservabilityConfig `yaml:"observability"`
	Leaderboard   LeaderboardConfig   `yaml:"leaderboard"`
	Ticket        TicketConfig        `yaml:"ticket"`
}

// DiscordConfig holds the bot token, guild and the channels and roles it manages.
type DiscordConfig struct {
	Token        string         `yaml:"token"`
	GuildID      string         `yaml:"guild_id"`
	AffiliateURL string         `yaml:"affiliate_url"`
	Channels     ChannelsConfig `yaml:"channels"`
	Roles        RolesConfig    `yaml:"roles"`
}

// ChannelsConfig holds channel IDs. Empty IDs disable the matching feature.
type ChannelsConfig struct {
	Welcome         string `yaml:"welcome"`
	StaffValidation string `yaml:"staff_validation"`
	GeneralVIP      string `yaml:"general_vip"`
	AnalysisRequest string `yaml:"analysis_request"`
	Leaderboard     string `yaml:"leaderboard"`
	BotLogs         string `yaml:"bot_logs"`
}

// RolesConfig holds role IDs.
type RolesConfig struct {
	Unverified string `yaml:"unverified"`
	Rookie     string `yaml:"rookie"`
	Staff      string `yaml:"staff"`
	Member     string `yaml:"member"`
	Captain    string `yaml:"captain"`
	RightHand  string `yaml:"right_hand"`
	Sponsor    string `yaml:"sponsor"`
	Legend     string `yaml:"legend"`
}

// StorageConfig selects where the points snapshot is kept.
type StorageConfig struct {
	Backend       string         `yaml:"backend"`
	FilePath      string         `yaml:"file_path"`
	FlushDebounce time.Duration  `yaml:"flush_debounce"`
	Postgres      PostgresConfig `yaml:"postgres"`
	Redis         RedisConfig    `yaml:"redis"`
	S3            S3Config       `yaml:"s3"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	URL string `yaml:"url"`
	Key string `yaml:"key"`
}

// S3Config holds object storage configuration.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	Key       string `yaml:"key"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// EventBusConfig selects the audit event transport.
type EventBusConfig struct {
	Backend   string `yaml:"backend"`
	NATSURL   string `yaml:"nats_url"`
	JetStream bool   `yaml:"jetstream"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
	MetricsAddress string `yaml:"metrics_address"`
}

// LeaderboardConfig controls leaderboard rendering.
type LeaderboardConfig struct {
	TopN  int  `yaml:"top_n"`
	Chart bool `yaml:"chart"`
}

// TicketConfig controls support ticket rate limiting.
type TicketConfig struct {
	RatePerMinute float64 `yaml:"rate_per_minute"`
	Burst         int     `yaml:"burst"`
}

// LoadConfig loads .env, then the YAML file when present, then environment
// overrides, and fills defaults.
func LoadConfig(filename string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
			// env-only configuration
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	stringVars := map[string]*string{
		"DISCORD_TOKEN":               &cfg.Discord.Token,
		"GUILD_ID":                    &cfg.Discord.GuildID,
		"AFFILIATE_URL":               &cfg.Discord.AffiliateURL,
		"WELCOME_CHANNEL_ID":          &cfg.Discord.Channels.Welcome,
		"STAFF_VALIDATION_CHANNEL_ID": &cfg.Discord.Channels.StaffValidation,
		"GENERAL_VIP_CHANNEL_ID":      &cfg.Discord.Channels.GeneralVIP,
		"ANALYSE_REQUEST_CHANNEL_ID":  &cfg.Discord.Channels.AnalysisRequest,
		"CLASSEMENT_CHANNEL_ID":       &cfg.Discord.Channels.Leaderboard,
		"BOT_LOGS_CHANNEL_ID":         &cfg.Discord.Channels.BotLogs,
		"NONVIA_ROLE_ID":              &cfg.Discord.Roles.Unverified,
		"ROOKIE_ROLE_ID":              &cfg.Discord.Roles.Rookie,
		"STAFF_ROLE_ID":               &cfg.Discord.Roles.Staff,
		"RANK_MEMBRE_ROLE_ID":         &cfg.Discord.Roles.Member,
		"RANK_CAPTAIN_ROLE_ID":        &cfg.Discord.Roles.Captain,
		"RANK_BRASDROIT_ROLE_ID":      &cfg.Discord.Roles.RightHand,
		"RANK_PARRAIN_ROLE_ID":        &cfg.Discord.Roles.Sponsor,
		"RANK_LEGENDE_ROLE_ID":        &cfg.Discord.Roles.Legend,
		"STORAGE_BACKEND":             &cfg.Storage.Backend,
		"DATA_FILE":                   &cfg.Storage.FilePath,
		"DATABASE_URL":                &cfg.Storage.Postgres.DSN,
		"REDIS_URL":                   &cfg.Storage.Redis.URL,
		"REDIS_KEY":                   &cfg.Storage.Redis.Key,
		"S3_ENDPOINT":                 &cfg.Storage.S3.Endpoint,
		"S3_REGION":                   &cfg.Storage.S3.Region,
		"S3_BUCKET":                   &cfg.Storage.S3.Bucket,
		"S3_KEY":                      &cfg.Storage.S3.Key,
		"S3_ACCESS_KEY":               &cfg.Storage.S3.AccessKey,
		"S3_SECRET_KEY":               &cfg.Storage.S3.SecretKey,
		"EVENTBUS_BACKEND":            &cfg.EventBus.Backend,
		"NATS_URL":                    &cfg.EventBus.NATSURL,
		"METRICS_ADDRESS":             &cfg.Observability.MetricsAddress,
		"ENV":                         &cfg.Observability.Environment,
		"LOG_LEVEL":                   &cfg.Observability.LogLevel,
	}
	for name, field := range stringVars {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}

	if v := os.Getenv("NATS_JETSTREAM"); v != "" {
		cfg.EventBus.JetStream = v == "true"
	}
	if v := os.Getenv("LEADERBOARD_CHART"); v != "" {
		cfg.Leaderboard.Chart = v == "true"
	}
	if v := os.Getenv("FLUSH_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FLUSH_DEBOUNCE value: %w", err)
		}
		cfg.Storage.FlushDebounce = d
	}
	if v := os.Getenv("LEADERBOARD_TOP_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid LEADERBOARD_TOP_N value: %w", err)
		}
		cfg.Leaderboard.TopN = n
	}
	if v := os.Getenv("TICKET_RATE_PER_MINUTE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid TICKET_RATE_PER_MINUTE value: %w", err)
		}
		cfg.Ticket.RatePerMinute = f
	}
	if v := os.Getenv("TICKET_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TICKET_BURST value: %w", err)
		}
		cfg.Ticket.Burst = n
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = StorageFile
	}
	if cfg.Storage.FilePath == "" {
		cfg.Storage.FilePath = "./points.json"
	}
	if cfg.Storage.FlushDebounce <= 0 {
		cfg.Storage.FlushDebounce = time.Second
	}
	if cfg.Storage.S3.Region == "" {
		cfg.Storage.S3.Region = "us-east-1"
	}
	if cfg.EventBus.Backend == "" {
		cfg.EventBus.Backend = "gochannel"
	}
	if cfg.Observability.LogLevel == "" {
		cfg.Observability.LogLevel = "info"
	}
	if cfg.Leaderboard.TopN <= 0 {
		cfg.Leaderboard.TopN = 10
	}
	if cfg.Ticket.RatePerMinute == 0 {
		cfg.Ticket.RatePerMinute = 2
	}
	if cfg.Ticket.Burst <= 0 {
		cfg.Ticket.Burst = 1
	}
}

// Validate checks the settings required to connect to the gateway.
func (c *Config) Validate() error {
	var errs []error
	if c.Discord.Token == "" {
		errs = append(errs, errors.New("DISCORD_TOKEN is required"))
	}
	if c.Discord.GuildID == "" {
		errs = append(errs, errors.New("GUILD_ID is required"))
	}
	if err := c.ValidateStorage(); err != nil {
		errs = append(errs, err)
	}
	switch c.EventBus.Backend {
	case "gochannel":
	case "nats":
		if c.EventBus.NATSURL == "" {
			errs = append(errs, errors.New("NATS_URL is required for the nats event bus"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown event bus backend %q", c.EventBus.Backend))
	}
	return errors.Join(errs...)
}

// ValidateStorage checks the settings of the selected storage backend.
func (c *Config) ValidateStorage() error {
	switch c.Storage.Backend {
	case StorageFile:
		return nil
	case StoragePostgres:
		if c.Storage.Postgres.DSN == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	case StorageRedis:
		if c.Storage.Redis.URL == "" {
			return errors.New("REDIS_URL is required for the redis backend")
		}
	case StorageS3:
		if c.Storage.S3.Bucket == "" {
			return errors.New("S3_BUCKET is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}
