package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaultsAreValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate: %v", err)
	}
}

func TestFromLookupOverrides(t *testing.T) {
	c, err := fromLookup(env(map[string]string{
		"AIRQ_ADDR":                 ":9000",
		"AIRQ_OBSERVATION_SOURCE":   "sql",
		"AIRQ_SQL_DRIVER":           "sqlite",
		"AIRQ_SQL_DSN":              "file:airq.db",
		"AIRQ_S3_PATH_STYLE":        "true",
		"AIRQ_HTTP_TIMEOUT":         "5s",
		"AIRQ_OVERPASS_ADMIN_LEVEL": "6",
		"AIRQ_BOROUGHS":             "",
	}))
	if err != nil {
		t.Fatalf("fromLookup: %v", err)
	}
	if c.Addr != ":9000" || c.ObservationSource != "sql" || c.SQLDriver != "sqlite" {
		t.Errorf("config = %+v", c)
	}
	if !c.S3PathStyle || c.HTTPTimeout != 5*time.Second || c.OverpassAdminLevel != 6 {
		t.Errorf("config = %+v", c)
	}
	if c.BoroughLocation != Default().BoroughLocation {
		t.Errorf("empty variable should keep default, got %q", c.BoroughLocation)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestFromLookupRejectsBadValues(t *testing.T) {
	for _, m := range []map[string]string{
		{"AIRQ_S3_PATH_STYLE": "maybe"},
		{"AIRQ_LOAD_TIMEOUT": "soon"},
		{"AIRQ_OVERPASS_ADMIN_LEVEL": "five"},
	} {
		if _, err := fromLookup(env(m)); err == nil {
			t.Errorf("fromLookup(%v) succeeded", m)
		}
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	c := Default()
	c.BoroughSource = "shapefile"
	c.UHF42Source = SourceSQL
	c.SQLDSN = ""
	err := c.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"borough source", "sql dsn"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("AIRQ_TEST_DOTENV=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AIRQ_TEST_DOTENV", "")
	os.Unsetenv("AIRQ_TEST_DOTENV")
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("AIRQ_TEST_DOTENV"); got != "from-file" {
		t.Fatalf("AIRQ_TEST_DOTENV = %q", got)
	}
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing file: %v", err)
	}
}

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	c := Default()
	c.LogFormat = "json"
	c.LogLevel = "warn"
	log := c.NewLogger(&buf)
	log.Info("hidden")
	log.Warn("shown", "k", "v")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"msg":"shown"`) {
		t.Fatalf("log output = %q", out)
	}
}
