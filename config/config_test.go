package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	wd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("切换目录失败: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("默认端口期望 8080, 实际 %d", cfg.Server.Port)
	}
	if cfg.Server.SessionRateLimit != 30 || cfg.Server.MaxBodyBytes != 1<<20 {
		t.Errorf("默认服务器限制不符: %+v", cfg.Server)
	}
	if cfg.Session.IdleTTL != 2*time.Hour {
		t.Errorf("默认 idle_ttl 期望 2h, 实际 %v", cfg.Session.IdleTTL)
	}
	if cfg.Export.TermWeeks != 16 {
		t.Errorf("默认 term_weeks 期望 16, 实际 %d", cfg.Export.TermWeeks)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("默认日志配置不符: %+v", cfg.Log)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `server:
  port: 9090
catalog:
  path: /data/courses.txt
export:
  term_start: "2027-01-11"
  term_weeks: 15
  timezone: UTC
feature:
  archive_enabled: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("写入配置失败: %v", err)
	}
	t.Setenv("PLANNER_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Catalog.Path != "/data/courses.txt" {
		t.Errorf("文件配置未生效: %+v", cfg)
	}
	if !cfg.Feature.ArchiveEnabled {
		t.Error("archive_enabled 应为 true")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("环境变量应覆盖日志级别, 实际 %s", cfg.Log.Level)
	}

	start, err := cfg.Export.TermStartDate()
	if err != nil {
		t.Fatalf("TermStartDate 失败: %v", err)
	}
	if !start.Equal(time.Date(2027, 1, 11, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("学期起始日期不符: %v", start)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:  ServerConfig{Port: 8080},
			Catalog: CatalogConfig{Path: "courses.txt"},
			Session: SessionConfig{IdleTTL: time.Hour},
			Export:  ExportConfig{TermStart: "2026-08-17", TermWeeks: 16, Timezone: "UTC"},
		}
	}

	cfg := valid()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("合法配置校验失败: %v", err)
	}

	cases := map[string]func(c *Config){
		"端口越界": func(c *Config) { c.Server.Port = 70000 },
		"请求体限": func(c *Config) { c.Server.MaxBodyBytes = 0 },
		"目录为空": func(c *Config) { c.Catalog.Path = "" },
		"会话超时": func(c *Config) { c.Session.IdleTTL = 0 },
		"周数为零": func(c *Config) { c.Export.TermWeeks = 0 },
		"日期非法": func(c *Config) { c.Export.TermStart = "2026/08/17" },
		"时区非法": func(c *Config) { c.Export.Timezone = "Mars/Olympus" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("期望校验失败")
			}
		})
	}
}
