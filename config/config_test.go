package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "environment:\n  name: test\n"))
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Environment.Name != "test" || cfg.HTTPServer.Port != 8080 {
		t.Errorf("server config = %+v %+v", cfg.Environment, cfg.HTTPServer)
	}
	s := cfg.Scheduler
	if s.HorizonHours != 168 || s.SleepStartHour != 1 || s.SleepEndHour != 5 || s.MaxTasksPerPass != 5 ||
		s.TopK != 6 || !s.PreferSplitting || s.MaxChunkHours != 2 || s.MinChunkHours != 0.5 ||
		s.ClassBufferHours != 1.5 || len(s.RecurringBlocks) != 0 {
		t.Errorf("scheduler defaults = %+v", s)
	}
	p := cfg.Policy
	if p.Epsilon != 0.2 || p.LearningRate != 0.5 || p.HashBits != 16 || p.CacheSize != 256 || p.Store != PolicyStoreFile {
		t.Errorf("policy defaults = %+v", p)
	}
	if cfg.GoogleCalendar.Enabled() {
		t.Errorf("calendar enabled without credentials")
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := writeConfig(t, `
scheduler:
  timezone: America/New_York
  horizon_hours: 48
  class_buffer_hours: 0.5
  recurring_blocks:
    - name: CS101
      weekdays: [mon, wed]
      start: "14:00"
      end: "15:30"
    - name: Lab
      user_id: u2
      weekdays: [fri]
      start: "09:00"
      end: "12:00"
policy:
  store: redis
  epsilon: 0.1
redis:
  addr: redis:6379
  password: ${TIMELY_REDIS_PASSWORD}
webhook:
  enabled: true
  secret: from-file
  allowed_ips:
    - 10.0.0.0/8
    - 203.0.113.7
`)
	t.Setenv("TIMELY_REDIS_PASSWORD", "hunter2")
	t.Setenv("SCHEDULER_TOP_K", "3")
	t.Setenv("WEBHOOK_SECRET", "from-env")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Scheduler.HorizonHours != 48 || cfg.Scheduler.TopK != 3 {
		t.Errorf("scheduler = %+v", cfg.Scheduler)
	}
	if blocks := cfg.Scheduler.RecurringBlocks; cfg.Scheduler.ClassBufferHours != 0.5 || len(blocks) != 2 ||
		blocks[0].Name != "CS101" || strings.Join(blocks[0].Weekdays, ",") != "mon,wed" || blocks[0].End != "15:30" ||
		blocks[1].UserID != "u2" {
		t.Errorf("recurring blocks = %+v, buffer %v", blocks, cfg.Scheduler.ClassBufferHours)
	}
	if loc, _ := cfg.Scheduler.Location(); loc.String() != "America/New_York" {
		t.Errorf("location = %v", loc)
	}
	if cfg.Policy.Store != PolicyStoreRedis || cfg.Policy.Epsilon != 0.1 {
		t.Errorf("policy = %+v", cfg.Policy)
	}
	if cfg.Redis.Password != "hunter2" {
		t.Errorf("redis password = %q, want expanded env", cfg.Redis.Password)
	}
	if cfg.Webhook.Secret != "from-env" {
		t.Errorf("webhook secret = %q, want env override", cfg.Webhook.Secret)
	}
	if strings.Join(cfg.Webhook.AllowedIPs, ",") != "10.0.0.0/8,203.0.113.7" {
		t.Errorf("allowed ips = %v", cfg.Webhook.AllowedIPs)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := LoadFile(writeConfig(t, "{}\n"))
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"epsilon above one", func(c *Config) { c.Policy.Epsilon = 1.5 }, "policy.epsilon"},
		{"negative epsilon", func(c *Config) { c.Policy.Epsilon = -0.1 }, "policy.epsilon"},
		{"horizon too long", func(c *Config) { c.Scheduler.HorizonHours = 721 }, "horizon_hours"},
		{"zero horizon", func(c *Config) { c.Scheduler.HorizonHours = 0 }, "horizon_hours"},
		{"sleep hour", func(c *Config) { c.Scheduler.SleepEndHour = 24 }, "sleep hours"},
		{"chunk sizes", func(c *Config) { c.Scheduler.MaxChunkHours = 0 }, "chunk sizes"},
		{"min above max", func(c *Config) { c.Scheduler.MinChunkHours = 3 }, "min_chunk_hours"},
		{"unknown store", func(c *Config) { c.Policy.Store = "s3" }, "policy.store"},
		{"redis without addr", func(c *Config) { c.Policy.Store = PolicyStoreRedis; c.Redis.Addr = "" }, "redis.addr"},
		{"webhook without secret", func(c *Config) { c.Webhook.Enabled = true; c.Webhook.Secret = "" }, "webhook.secret"},
		{"negative class buffer", func(c *Config) { c.Scheduler.ClassBufferHours = -1 }, "class_buffer_hours"},
		{"bad timezone", func(c *Config) { c.Scheduler.Timezone = "Mars/Olympus" }, "timezone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.want)
			}
		})
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}
}
