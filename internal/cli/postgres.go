package cli

import (
	"fmt"

	"github.com/steadyhq/steady/internal/keyring"
)

type PostgresSetCmd struct {
	ConnStr string `arg:"" help:"Postgres connection string (postgres://...)."`
}

func (c *PostgresSetCmd) Run(ctx *Context) error {
	if err := keyring.SetPostgresConn(c.ConnStr); err != nil {
		return fmt.Errorf("storing connection string: %w", err)
	}
	fmt.Println("Connection string stored in system keyring")
	fmt.Println("Use it with: steady --config postgres <command>")
	return nil
}

type PostgresClearCmd struct{}

func (c *PostgresClearCmd) Run(ctx *Context) error {
	if err := keyring.DeletePostgresConn(); err != nil {
		return fmt.Errorf("clearing connection string: %w", err)
	}
	fmt.Println("Connection string removed from system keyring")
	return nil
}
