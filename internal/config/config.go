package config

import (
	"os"
)

type Config struct {
	AppPort string
	DBDSN   string

	RedisAddr     string
	RedisPassword string

	// External identity provider (session-token verification + user API).
	IdentityPublicKeyPEM string
	IdentityAPIBase      string
	IdentityTokenURL     string
	IdentityClientID     string
	IdentityClientSecret string

	// Media host.
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	CORSOrigins string
}

func Load() Config {
	return Config{
		AppPort: get("APP_PORT", "8080"),
		DBDSN:   must("DB_DSN"),

		RedisAddr:     get("REDIS_ADDR", "localhost:6379"),
		RedisPassword: get("REDIS_PASSWORD", ""),

		IdentityPublicKeyPEM: must("IDENTITY_PUBLIC_KEY"),
		IdentityAPIBase:      must("IDENTITY_API_BASE"),
		IdentityTokenURL:     get("IDENTITY_TOKEN_URL", ""),
		IdentityClientID:     get("IDENTITY_CLIENT_ID", ""),
		IdentityClientSecret: get("IDENTITY_CLIENT_SECRET", ""),

		CloudinaryCloudName: must("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    must("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: must("CLOUDINARY_API_SECRET"),

		CORSOrigins: get("CORS_ORIGINS", "http://localhost:5173, http://localhost:5174"),
	}
}

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
