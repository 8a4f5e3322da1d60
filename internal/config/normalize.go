package config

import (
	"fmt"
	neturl "net/url"
	"strings"
)

// URLValue resolves the MongoDB connection string. An explicit url wins;
// otherwise the URI is assembled from the individual parts.
func (c MongoRuntimeConfig) URLValue() string {
	if v := strings.TrimSpace(c.URL); v != "" {
		return v
	}

	var userinfo string
	if c.Username != "" {
		userinfo = neturl.QueryEscape(c.Username)
		if c.Password != "" {
			userinfo += ":" + neturl.QueryEscape(c.Password)
		}
		userinfo += "@"
	}
	return fmt.Sprintf("mongodb://%s%s:%d/%s", userinfo, c.Host, c.Port, c.Name)
}

// DatabaseName returns the database component of the connection target.
// An explicit connection string is the source of truth: its path wins over
// Name, which carries the built-in default whenever no name was configured.
func (c MongoRuntimeConfig) DatabaseName() string {
	if v := strings.TrimSpace(c.URL); v != "" {
		if u, err := neturl.Parse(v); err == nil {
			if name := strings.TrimPrefix(u.Path, "/"); name != "" {
				return name
			}
		}
	}
	if v := strings.TrimSpace(c.Name); v != "" {
		return v
	}
	return defaultMongoName
}

// URLValue resolves the Redis connection string.
func (c RedisRuntimeConfig) URLValue() string {
	if v := strings.TrimSpace(c.URL); v != "" {
		return v
	}

	scheme := "redis"
	if c.TLS {
		scheme = "rediss"
	}
	var userinfo string
	if c.Username != "" || c.Password != "" {
		userinfo = neturl.QueryEscape(c.Username) + ":" + neturl.QueryEscape(c.Password) + "@"
	}
	return fmt.Sprintf("%s://%s%s:%d/%d", scheme, userinfo, c.Host, c.Port, c.DB)
}

func normalizeEnv(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "prod", "production":
		return "production"
	default:
		return "development"
	}
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		out = append(out, o)
	}
	return out
}
