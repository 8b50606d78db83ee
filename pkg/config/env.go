package config

import (
	"strconv"
	"strings"
	"time"
)

// LookupFunc reads an environment variable (os.LookupEnv in production).
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides c with environment variables. Unparsable numbers and
// durations are ignored.
//
//	TARGET_IFC_CLASSES       takeoff.classes (comma-separated)
//	IFCQTO_WORKERS           takeoff.workers
//	IFCQTO_TIMEOUT           takeoff.timeout
//	IFCQTO_ADDR              server.addr
//	CORS_ORIGINS             server.cors_origins (comma-separated)
//	IFCQTO_STORE             store.backend
//	IFCQTO_SQLITE_PATH       store.sqlite_path
//	MONGODB_URI              store.mongodb_uri
//	IFCQTO_MONGODB_DATABASE  store.mongodb_database
//	REDIS_ADDR               redis.addr
//	REDIS_PASSWORD           redis.password
//	IFCQTO_TOPIC             redis.topic
//	IFCQTO_CACHE_DIR         cache.dir
func (c *Config) ApplyEnv(lookup LookupFunc) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := lookup(key); ok {
			if items := splitList(v); len(items) > 0 {
				*dst = items
			}
		}
	}

	list("TARGET_IFC_CLASSES", &c.Takeoff.Classes)
	if v, ok := lookup("IFCQTO_WORKERS"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.Takeoff.Workers = n
		}
	}
	if v, ok := lookup("IFCQTO_TIMEOUT"); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			c.Takeoff.Timeout.Duration = d
		}
	}

	str("IFCQTO_ADDR", &c.Server.Addr)
	list("CORS_ORIGINS", &c.Server.CORSOrigins)

	str("IFCQTO_STORE", &c.Store.Backend)
	str("IFCQTO_SQLITE_PATH", &c.Store.SQLitePath)
	str("MONGODB_URI", &c.Store.MongoURI)
	str("IFCQTO_MONGODB_DATABASE", &c.Store.MongoDatabase)

	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	str("IFCQTO_TOPIC", &c.Redis.Topic)

	str("IFCQTO_CACHE_DIR", &c.Cache.Dir)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
