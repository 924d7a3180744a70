package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ViewerSettings 查看器设置（只保存显示偏好，粒子状态从不持久化）
type ViewerSettings struct {
	// 显示设置
	ShowOverlay bool `yaml:"showOverlay"` // 调试信息覆盖层
	ShowPanels  bool `yaml:"showPanels"`  // 绘制面板边框
	Fullscreen  bool `yaml:"fullscreen"`  // 启动时是否全屏

	// 模拟设置
	Paused bool `yaml:"paused"` // 启动时暂停

	// FadePower 覆盖 field 家族的转向淡出指数，0 表示使用引擎配置
	FadePower float64 `yaml:"fadePower"`
}

// DefaultViewerSettings 返回默认设置
func DefaultViewerSettings() *ViewerSettings {
	return &ViewerSettings{
		ShowOverlay: false,
		ShowPanels:  true,
		Fullscreen:  false,
		Paused:      false,
		FadePower:   0,
	}
}

// SettingsManager 设置管理器
// 负责查看器设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager  // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *ViewerSettings // 当前设置
}

// SettingsStorageObject 设置在 gdata 中的对象名
const SettingsStorageObject = "settings"

const (
	settingsProperty = "viewer"

	maxFadePower = 10.0
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 保留给调用方统一处理；加载失败只记录日志并使用默认设置
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultViewerSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultViewerSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(SettingsStorageObject, settingsProperty) {
		sm.settings = DefaultViewerSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(SettingsStorageObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultViewerSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 先填默认值，旧版本文件缺少的字段保持默认
	loaded := DefaultViewerSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultViewerSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.FadePower = clampFadePower(loaded.FadePower)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(SettingsStorageObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *ViewerSettings {
	return sm.settings
}

// Persistent 是否具备持久化能力
func (sm *SettingsManager) Persistent() bool {
	return sm.gdataManager != nil
}

// ToggleOverlay 切换调试覆盖层，返回新值
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) ToggleOverlay() bool {
	sm.settings.ShowOverlay = !sm.settings.ShowOverlay
	return sm.settings.ShowOverlay
}

// TogglePanels 切换面板边框显示，返回新值
func (sm *SettingsManager) TogglePanels() bool {
	sm.settings.ShowPanels = !sm.settings.ShowPanels
	return sm.settings.ShowPanels
}

// TogglePaused 切换暂停状态，返回新值
func (sm *SettingsManager) TogglePaused() bool {
	sm.settings.Paused = !sm.settings.Paused
	return sm.settings.Paused
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetFadePower 设置转向淡出指数，限制在 0 ~ 10
func (sm *SettingsManager) SetFadePower(power float64) {
	sm.settings.FadePower = clampFadePower(power)
}

// clampFadePower 将淡出指数限制在 0 ~ maxFadePower 范围内
func clampFadePower(power float64) float64 {
	if power < 0 {
		return 0
	}
	if power > maxFadePower {
		return maxFadePower
	}
	return power
}
