// Package app 提供查看器应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/gonewx/driftfield/pkg/config"
	"github.com/gonewx/driftfield/pkg/embedded"
	"github.com/gonewx/driftfield/pkg/engine"
	"github.com/gonewx/driftfield/pkg/game"
	"github.com/gonewx/driftfield/pkg/scenes"
	"github.com/gonewx/driftfield/pkg/utils"
)

const (
	// AppName gdata 存储使用的应用名
	AppName = "driftfield"

	// DefaultWidth / DefaultHeight 初始窗口尺寸
	DefaultWidth  = 1280
	DefaultHeight = 720

	embeddedConfigPath = "data/engine.yaml"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 引擎配置文件路径，为空则使用嵌入的 data/engine.yaml
	ConfigPath string
	// Seed 随机种子，0 表示使用当前时间
	Seed int64
}

// App 是查看器应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	scene        *scenes.SpaceScene
	engine       *engine.Engine
	settings     *game.SettingsManager
	verbose      bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化查看器应用
//
// 使用嵌入配置时，调用此函数前必须先调用 embedded.Init()。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	engineConfig, err := loadEngineConfig(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}

	settings, err := game.NewSettingsManager(openStorage())
	if err != nil {
		return nil, fmt.Errorf("设置管理器初始化失败: %w", err)
	}

	clock := game.NewPausableClock(game.NewSystemClock())
	opts := []engine.Option{engine.WithClock(clock)}
	if cfg.Seed != 0 {
		opts = append(opts, engine.WithRand(rand.New(rand.NewSource(cfg.Seed))))
	}
	eng, err := engine.New(engineConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("引擎初始化失败: %w", err)
	}

	scene := scenes.NewSpaceScene(eng, clock, settings)
	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(scene)
	eng.Start()

	if settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	log.Printf("[App] Viewer started (settings persistent: %v)", settings.Persistent())
	return &App{
		sceneManager: sceneManager,
		scene:        scene,
		engine:       eng,
		settings:     settings,
		verbose:      cfg.Verbose,
	}, nil
}

// loadEngineConfig 优先读取外部配置文件，否则使用嵌入的默认配置
func loadEngineConfig(path string) (*config.EngineConfig, error) {
	if path != "" {
		cfg, err := config.LoadEngineConfig(path)
		if err != nil {
			return nil, fmt.Errorf("引擎配置加载失败: %w", err)
		}
		log.Printf("[Config] 加载引擎配置: %s", path)
		return cfg, nil
	}

	if !embedded.IsInitialized() {
		log.Printf("[Config] 嵌入资源未初始化，使用内置默认配置")
		return config.DefaultEngineConfig(), nil
	}
	data, err := embedded.ReadFile(embeddedConfigPath)
	if err != nil {
		return nil, fmt.Errorf("读取嵌入配置失败: %w", err)
	}
	cfg, err := config.ParseEngineConfig(data)
	if err != nil {
		return nil, fmt.Errorf("引擎配置解析失败: %w", err)
	}
	log.Printf("[Config] 加载嵌入配置: %s", embeddedConfigPath)
	return cfg, nil
}

// openStorage 打开 gdata 存储，失败时返回 nil（设置只保存在内存中）
func openStorage() *gdata.Manager {
	if err := utils.EnsureStorageDir(game.SettingsStorageObject); err != nil {
		log.Printf("[App] Warning: storage directory unavailable: %v", err)
		return nil
	}
	manager, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[App] Warning: failed to open gdata storage: %v (settings will not persist)", err)
		return nil
	}
	return manager
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 需要在 main 中调用 ebiten.SetWindowClosingHandled(true)
	if ebiten.IsWindowBeingClosed() {
		a.Shutdown()
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(DefaultWidth, DefaultHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", DefaultWidth, DefaultHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏（移动端始终全屏）
	if !utils.IsMobile() && inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			a.settings.SetFullscreen(false)
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
			a.settings.SetFullscreen(true)
		}
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 逻辑尺寸跟随窗口尺寸，相当于网页视口
//
// 尺寸变化经 SpaceScene.Resize 报告给引擎（引擎内部防抖）。
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		outsideWidth, outsideHeight = DefaultWidth, DefaultHeight
	}
	a.scene.Resize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// Shutdown 保存设置并关闭引擎，窗口关闭时调用
func (a *App) Shutdown() {
	a.sceneManager.Shutdown()
	a.engine.Close()
}

// Engine 返回引擎，供调试工具使用
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
