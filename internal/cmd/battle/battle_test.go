package battle

import (
	"flag"
	"testing"
)

func TestParseConfig(t *testing.T) {
	t.Setenv("RPG_APP_JWT_SECRET", "shh")
	t.Setenv("RPG_APP_ADDR", ":9999")

	fs := flag.NewFlagSet("battle", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Fatalf("addr = %q, want env value", cfg.Addr)
	}
	if cfg.DBPath != "battle.db" {
		t.Fatalf("db path = %q, want default", cfg.DBPath)
	}
}

func TestParseConfigFlagOverridesEnv(t *testing.T) {
	t.Setenv("RPG_APP_JWT_SECRET", "shh")
	t.Setenv("RPG_APP_ADDR", ":9999")

	fs := flag.NewFlagSet("battle", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-addr", ":7777"})
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Addr != ":7777" {
		t.Fatalf("addr = %q, want flag value", cfg.Addr)
	}
}

func TestParseConfigRequiresSecret(t *testing.T) {
	t.Setenv("RPG_APP_JWT_SECRET", "")

	fs := flag.NewFlagSet("battle", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("expected error without jwt secret")
	}
}
