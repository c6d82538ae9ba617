package cli

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/steadyhq/steady/internal/keyring"
)

func TestPostgresSetCmdStoresConnString(t *testing.T) {
	gokeyring.MockInit()
	defer func() { _ = keyring.DeletePostgresConn() }()

	cmd := &PostgresSetCmd{ConnStr: "postgres://steady@localhost:5432/steady?sslmode=disable"}
	if err := cmd.Run(&Context{}); err != nil {
		t.Fatalf("PostgresSetCmd.Run() failed: %v", err)
	}

	got, err := keyring.GetPostgresConn()
	if err != nil {
		t.Fatalf("GetPostgresConn failed: %v", err)
	}
	if got != cmd.ConnStr {
		t.Errorf("expected stored connection string %q, got %q", cmd.ConnStr, got)
	}
}

func TestPostgresClearCmdRemovesConnString(t *testing.T) {
	gokeyring.MockInit()

	if err := keyring.SetPostgresConn("postgres://steady@localhost:5432/steady"); err != nil {
		t.Fatalf("SetPostgresConn failed: %v", err)
	}

	cmd := &PostgresClearCmd{}
	if err := cmd.Run(&Context{}); err != nil {
		t.Fatalf("PostgresClearCmd.Run() failed: %v", err)
	}

	if _, err := keyring.GetPostgresConn(); err == nil {
		t.Error("expected connection string to be gone after clear")
	}
}
