package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"course-planner/config"
)

func TestNewLogger(t *testing.T) {
	cases := []struct {
		cfg     config.LogConfig
		wantErr bool
		level   zapcore.Level
	}{
		{config.LogConfig{Level: "info", Format: "json"}, false, zapcore.InfoLevel},
		{config.LogConfig{Level: "debug", Format: "console"}, false, zapcore.DebugLevel},
		{config.LogConfig{Level: "verbose", Format: "json"}, true, 0},
	}
	for _, tc := range cases {
		l, err := NewLogger(&tc.cfg)
		if tc.wantErr {
			if err == nil {
				t.Errorf("级别 %q 期望报错", tc.cfg.Level)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NewLogger(%+v) 失败: %v", tc.cfg, err)
		}
		if !l.Core().Enabled(tc.level) {
			t.Errorf("级别 %v 应启用", tc.level)
		}
		if tc.level == zapcore.InfoLevel && l.Core().Enabled(zapcore.DebugLevel) {
			t.Error("info 级别下 debug 不应启用")
		}
	}
}
