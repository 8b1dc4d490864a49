package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret signs admin cookies when JWT_SECRET is unset. It is
// accepted only in development.
const DefaultJWTSecret = "change-me"

var ErrDefaultJWTSecret = errors.New("JWT_SECRET must be set outside development")

type Config struct {
	Port   string
	AppEnv string

	MongoURI string
	MongoDB  string

	RedisAddr     string
	RedisPassword string

	JwtSecret     []byte
	AdminEmail    string
	AdminPassword string

	PublicURL   string
	CorsOrigins []string

	UploadDir string
	S3Bucket  string
	S3Region  string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	ContactEmail string

	InvoiceFont  string
	DashboardDir string

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads .env when present and falls back to the process environment.
func Load() *Config {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Error loading .env file:", err)
		}
	}

	publicURL := strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:8080"), "/")

	port := getEnv("PORT", ":8080")
	if port[0] != ':' {
		port = ":" + port
	}

	return &Config{
		Port:   port,
		AppEnv: getEnv("APP_ENV", "production"),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "shoestore"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		JwtSecret:     []byte(getEnv("JWT_SECRET", DefaultJWTSecret)),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		PublicURL:   publicURL,
		CorsOrigins: splitList(getEnv("CORS_ORIGINS", publicURL)),

		UploadDir: getEnv("UPLOAD_DIR", "static/uploads"),
		S3Bucket:  getEnv("S3_BUCKET", ""),
		S3Region:  getEnv("S3_REGION", ""),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		ContactEmail: getEnv("CONTACT_EMAIL", ""),

		InvoiceFont:  getEnv("INVOICE_FONT", ""),
		DashboardDir: getEnv("DASHBOARD_DIR", ""),

		RateLimitRPS:   getFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 10),
	}
}

func (c *Config) Development() bool {
	return c.AppEnv == "development"
}

// Validate reports settings the server must not start with.
func (c *Config) Validate() error {
	if string(c.JwtSecret) == DefaultJWTSecret && !c.Development() {
		return ErrDefaultJWTSecret
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
