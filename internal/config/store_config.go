package config

import "strings"

// StoreType selects where the demo keeps its token set.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeFile   StoreType = "file"
	StoreTypeRedis  StoreType = "redis"
	StoreTypeSQLite StoreType = "sqlite"
)

// IsValid returns true if the StoreType is one of the known backends.
func (t StoreType) IsValid() bool {
	switch StoreType(strings.ToLower(string(t))) {
	case StoreTypeMemory, StoreTypeFile, StoreTypeRedis, StoreTypeSQLite:
		return true
	default:
		return false
	}
}

type StoreConfig interface {
	GetStoreType() StoreType
	GetTokenFile() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisKey() string
	GetSQLitePath() string
	GetSQLiteName() string
}

type Store struct {
	Type          StoreType `envconfig:"STORE" default:"file"`
	TokenFile     string    `envconfig:"TOKEN_FILE" default:"./token.json"`
	RedisAddr     string    `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string    `envconfig:"REDIS_PASSWORD"`
	RedisDB       int       `envconfig:"REDIS_DB" default:"0"`
	RedisKey      string    `envconfig:"REDIS_KEY" default:"getresponse:token"`
	SQLitePath    string    `envconfig:"SQLITE_PATH" default:"./tokens.db"`
	SQLiteName    string    `envconfig:"SQLITE_NAME" default:"default"`
}

var _ StoreConfig = Store{}

func (s Store) GetStoreType() StoreType {
	return StoreType(strings.ToLower(string(s.Type)))
}

func (s Store) GetTokenFile() string {
	return s.TokenFile
}

func (s Store) GetRedisAddr() string {
	return s.RedisAddr
}

func (s Store) GetRedisPassword() string {
	return s.RedisPassword
}

func (s Store) GetRedisDB() int {
	return s.RedisDB
}

func (s Store) GetRedisKey() string {
	return s.RedisKey
}

func (s Store) GetSQLitePath() string {
	return s.SQLitePath
}

func (s Store) GetSQLiteName() string {
	return s.SQLiteName
}
