package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
environment = "dev"

[extractor]
referenceYear = 2014

[batch]
workers = 4
adminCsvPath = "/tmp/divisions.csv"

[server]
listen = ":9090"

[redises.General]
addr = "127.0.0.1:6379"
db = 1
useSentinel = true
sentinelAddrs = ["10.0.0.1:26379", "10.0.0.2:26379"]
masterName = "mymaster"
sentinelPassword = "secret"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	conf, err := parseConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if conf.Environment != "dev" {
		t.Errorf("Environment = %q", conf.Environment)
	}
	if conf.ExtractorConfig.ReferenceYear != 2014 {
		t.Errorf("ReferenceYear = %d, want 2014", conf.ExtractorConfig.ReferenceYear)
	}
	if conf.BatchConfig.Workers != 4 {
		t.Errorf("Workers = %d, want 4", conf.BatchConfig.Workers)
	}
	if conf.ServerConfig.Listen != ":9090" {
		t.Errorf("Listen = %q, want :9090", conf.ServerConfig.Listen)
	}
	r, ok := conf.Redises["General"]
	if !ok || r.Addr != "127.0.0.1:6379" || r.DB != 1 {
		t.Errorf("Redises[General] = %+v", r)
	}
	if !r.UseSentinel || r.MasterName != "mymaster" || r.SentinelPassword != "secret" {
		t.Errorf("sentinel config = %+v", r)
	}
	if len(r.SentinelAddrs) != 2 || r.SentinelAddrs[0] != "10.0.0.1:26379" {
		t.Errorf("SentinelAddrs = %v", r.SentinelAddrs)
	}
}

func TestParseConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	conf, err := parseConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if conf.ExtractorConfig.ReferenceYear != 2013 {
		t.Errorf("default ReferenceYear = %d, want 2013", conf.ExtractorConfig.ReferenceYear)
	}
	if conf.ExtractorConfig.FactSummaryLen != 200 {
		t.Errorf("default FactSummaryLen = %d, want 200", conf.ExtractorConfig.FactSummaryLen)
	}
	if conf.BatchConfig.BatchSize != 500 {
		t.Errorf("default BatchSize = %d, want 500", conf.BatchConfig.BatchSize)
	}
	if conf.ServerConfig.Listen != ":8080" {
		t.Errorf("default Listen = %q, want :8080", conf.ServerConfig.Listen)
	}
	if conf.ServerConfig.MaxBodyBytes != 4<<20 {
		t.Errorf("default MaxBodyBytes = %d", conf.ServerConfig.MaxBodyBytes)
	}
	if conf.AmapConfig.BaseURL != "https://restapi.amap.com" {
		t.Errorf("default BaseURL = %q", conf.AmapConfig.BaseURL)
	}
}

func TestParseConfigMissingFile(t *testing.T) {
	if _, err := parseConfig("/nonexistent/config.toml"); err == nil {
		t.Error("expected error for missing config file")
	}
}
