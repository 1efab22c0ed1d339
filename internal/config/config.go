package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultDBPort     = 4000
	defaultServerHost = "0.0.0.0"
	defaultServerPort = "8000"
)

// Config holds everything the service reads from the environment. It is
// populated once at startup; handlers never touch the environment.
type Config struct {
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSL      bool

	ServerHost string
	ServerPort string

	// Metric variants. Defaults reproduce the status-set occupancy and the
	// revenue-ranked top-5 ranking.
	OccupancyApprovedOnly bool
	OccupancyClamp        bool
	TopSpotsByCount       bool

	// Digest delivery. The job is only scheduled when a recipient is set.
	DigestSchedule string
	DigestEmailTo  string
	DigestSMSTo    string
}

func Load() (*Config, error) {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", strconv.Itoa(defaultDBPort)))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     dbPort,
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		// The cloud-hosted store listens on 4000 and requires TLS.
		DBSSL:      getEnvBool("DB_SSL", dbPort == defaultDBPort),
		ServerHost: getEnv("SERVER_HOST", defaultServerHost),
		ServerPort: getEnv("SERVER_PORT", defaultServerPort),

		OccupancyApprovedOnly: getEnvBool("OCCUPANCY_APPROVED_ONLY", false),
		OccupancyClamp:        getEnvBool("OCCUPANCY_CLAMP", false),
		TopSpotsByCount:       getEnvBool("TOP_SPOTS_BY_COUNT", false),

		DigestSchedule: getEnv("DIGEST_SCHEDULE", "0 7 * * *"),
		DigestEmailTo:  os.Getenv("DIGEST_EMAIL_TO"),
		DigestSMSTo:    os.Getenv("DIGEST_SMS_TO"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails fast on missing required fields so a misconfigured
// deployment dies at startup, not on the first request.
func (c *Config) Validate() error {
	var missing []string
	if c.DBHost == "" {
		missing = append(missing, "DB_HOST")
	}
	if c.DBUser == "" {
		missing = append(missing, "DB_USER")
	}
	if c.DBPassword == "" {
		missing = append(missing, "DB_PASSWORD")
	}
	if c.DBName == "" {
		missing = append(missing, "DB_NAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// DSN builds the lib/pq connection string. TLS rides entirely on sslmode;
// there is one code path for both the local and the cloud store.
func (c *Config) DSN() string {
	sslMode := "disable"
	if c.DBSSL {
		sslMode = "require"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, sslMode)
}

func (c *Config) ListenAddr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
