package psql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigDSN(t *testing.T) {
	cfg := Config{Host: "db", User: "u", Password: "p", DBName: "mocks", Port: 5432}
	assert.Equal(t, "host=db user=u password=p dbname=mocks port=5432 sslmode=disable", cfg.DSN())

	cfg.SslMode = "require"
	assert.Contains(t, cfg.DSN(), "sslmode=require")
}
