package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/gonewx/driftfield/pkg/utils"
)

func TestDefaultEngineConfig_Valid(t *testing.T) {
	cfg := DefaultEngineConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	if cfg.Collision.AbsorptionDuration != 800*time.Millisecond {
		t.Errorf("AbsorptionDuration = %v, want 800ms", cfg.Collision.AbsorptionDuration)
	}
	if cfg.Collision.CheckIntervalFrames != 3 {
		t.Errorf("CheckIntervalFrames = %d, want 3", cfg.Collision.CheckIntervalFrames)
	}
	if cfg.Scheduler.ThrottleFrames != 2 {
		t.Errorf("ThrottleFrames = %d, want 2", cfg.Scheduler.ThrottleFrames)
	}
	if cfg.Field.FadePower != 3 {
		t.Errorf("FadePower = %v, want 3", cfg.Field.FadePower)
	}
}

// 嵌入的 data/engine.yaml 必须与默认值一致
func TestLoadEngineConfig_ShippedFileMatchesDefaults(t *testing.T) {
	cfg, err := LoadEngineConfig(filepath.Join("..", "..", "data", "engine.yaml"))
	if err != nil {
		t.Fatalf("LoadEngineConfig failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultEngineConfig()) {
		t.Errorf("data/engine.yaml drifted from DefaultEngineConfig()\n got: %+v\nwant: %+v", cfg, DefaultEngineConfig())
	}
}

func TestParseEngineConfig_PartialOverride(t *testing.T) {
	data := []byte(`
collision:
  absorptionDuration: 1200ms
  colliderRatio: 0.5
belt:
  count: 7
  sizeRange: [5, 9]
`)
	cfg, err := ParseEngineConfig(data)
	if err != nil {
		t.Fatalf("ParseEngineConfig failed: %v", err)
	}

	if cfg.Collision.AbsorptionDuration != 1200*time.Millisecond {
		t.Errorf("AbsorptionDuration = %v, want 1.2s", cfg.Collision.AbsorptionDuration)
	}
	if cfg.Collision.ColliderRatio != 0.5 {
		t.Errorf("ColliderRatio = %v, want 0.5", cfg.Collision.ColliderRatio)
	}
	if cfg.Belt.Count != 7 {
		t.Errorf("Belt.Count = %d, want 7", cfg.Belt.Count)
	}
	if cfg.Belt.SizeRange != (utils.Range{5, 9}) {
		t.Errorf("Belt.SizeRange = %v, want [5 9]", cfg.Belt.SizeRange)
	}
	// 未出现的字段保留默认值
	if cfg.Collision.SlowdownGrace != 200*time.Millisecond {
		t.Errorf("SlowdownGrace = %v, want default 200ms", cfg.Collision.SlowdownGrace)
	}
	if len(cfg.Free.Kinds) != 3 {
		t.Errorf("Free.Kinds = %d entries, want default 3", len(cfg.Free.Kinds))
	}
}

func TestParseEngineConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantRange bool
	}{
		{"碰撞体比例超出范围", "collision:\n  colliderRatio: 1.5\n", true},
		{"区间颠倒", "belt:\n  sizeRange: [30, 10]\n", true},
		{"中点不在旅程区间内", "belt:\n  journeyMidpoint: 0.5\n", true},
		{"旅程区间越界", "field:\n  journeyRange: [0.9, 1.2]\n  journeyMidpoint: 0.95\n", true},
		{"扫描间隔为零", "collision:\n  checkIntervalFrames: 0\n", false},
		{"吸收时长短于宽限期", "collision:\n  absorptionDuration: 100ms\n", false},
		{"节流帧数为零", "scheduler:\n  throttleFrames: 0\n", false},
		{"自由种类重名", "free:\n  kinds:\n    - {name: a, spawnIntervalMs: [1, 2]}\n    - {name: a, spawnIntervalMs: [1, 2]}\n", false},
		{"自由种类缺少名称", "free:\n  kinds:\n    - {spawnIntervalMs: [1, 2]}\n", false},
		{"YAML 语法错误", "collision: [", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEngineConfig([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantRange && !errors.Is(err, ErrInvalidRange) {
				t.Errorf("error %v should wrap ErrInvalidRange", err)
			}
		})
	}
}

func TestLoadEngineConfig_MissingFile(t *testing.T) {
	_, err := LoadEngineConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error %v should wrap os.ErrNotExist", err)
	}
}
