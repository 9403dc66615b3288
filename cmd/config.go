package cmd

type Config struct {
	HTTPPort      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSslMode     string
	GeoAPIKey     string
	GeoBaseURL    string
	GeoTimeout    string
	GeocodeTTL    string
	RedisAddr     string
	RedisPassword string
}
