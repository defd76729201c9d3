package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, StorePostgres, cfg.Store.Backend)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout)
	assert.Equal(t, 30*24*60, cfg.JWT.Expiration)
	assert.Equal(t, "obras.session-token", cfg.Session.CookieName)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "users", cfg.Mongo.Collection)
	assert.False(t, cfg.App.SwaggerEnabled)
}

func TestFromViper_MongoURISeleccionaBackend(t *testing.T) {
	v := viper.New()
	v.Set("MONGODB_URI", "mongodb://localhost:27017")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, StoreMongo, cfg.Store.Backend)

	v.Set("STORE_BACKEND", "Postgres")
	cfg, err = fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.Store.Backend, "STORE_BACKEND explícito manda")
}

func TestFromViper_EnterosComoTexto(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "9090")
	v.Set("STORE_TIMEOUT_SECONDS", " 2 ")
	v.Set("DB_PORT", "no-numero")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 2*time.Second, cfg.Store.Timeout)
	assert.Equal(t, 5432, cfg.DB.Port)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "obras", Password: "p@ss:1", DBName: "obras", SSLMode: "disable"}
	assert.Equal(t, "postgres://obras:p%40ss%3A1@db:5432/obras?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Store: StoreConfig{Backend: StorePostgres, Timeout: time.Second},
			JWT:   JWTConfig{Secret: "s"},
		}
	}
	require.NoError(t, valid().Validate())

	c := valid()
	c.JWT.Secret = ""
	assert.ErrorContains(t, c.Validate(), "JWT_SECRET")

	c = valid()
	c.Store.Backend = StoreMongo
	assert.ErrorContains(t, c.Validate(), "MONGODB_URI")

	c = valid()
	c.Store.Backend = "redis"
	assert.Error(t, c.Validate())

	c = valid()
	c.Store.Timeout = 0
	assert.Error(t, c.Validate())
}
