package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}

	cam := cfg.Viewer.Camera
	if cam.Position != (Vec3{0, 5, 10}) {
		t.Errorf("expected camera at (0,5,10), got %v", cam.Position)
	}
	if cam.FOV != 50 || cam.Damping != 0.05 || cam.MinDistance != 1 || cam.MaxDistance != 100 {
		t.Errorf("unexpected camera defaults: %+v", cam)
	}

	if cfg.Viewer.Lighting.Ambient != 0.5 || cfg.Viewer.Lighting.Direction != (Vec3{5, 5, 5}) {
		t.Errorf("unexpected lighting defaults: %+v", cfg.Viewer.Lighting)
	}
	if cfg.Viewer.Scene.Background != "#1a1a1a" || !cfg.Viewer.Scene.ShowGrid {
		t.Errorf("unexpected scene defaults: %+v", cfg.Viewer.Scene)
	}

	m := cfg.Viewer.Material
	if m.Color != "#ffffff" || m.Metalness != 0.5 || m.Roughness != 0.5 || m.Opacity != 1 || m.EmissiveIntensity != 0 {
		t.Errorf("unexpected material defaults: %+v", m)
	}
	if cfg.Viewer.Animation.Speed != 1 || !cfg.Viewer.Animation.Loop {
		t.Errorf("unexpected animation defaults: %+v", cfg.Viewer.Animation)
	}
	if cfg.Viewer.Model.Scale != 1 {
		t.Errorf("expected model scale 1, got %v", cfg.Viewer.Model.Scale)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true

viewer:
  model:
    path: "robot.glb"
    scale: 2
    position: {x: 1, y: 0, z: -1}
  camera:
    fov: 35
  scene:
    background: "#202830"
    show_grid: false
  animation:
    speed: 0.5
    loop: false

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || !cfg.Window.Fullscreen {
		t.Errorf("window not loaded: %+v", cfg.Window)
	}
	if cfg.Viewer.Model.Path != "robot.glb" || cfg.Viewer.Model.Scale != 2 {
		t.Errorf("model not loaded: %+v", cfg.Viewer.Model)
	}
	if cfg.Viewer.Model.Position != (Vec3{1, 0, -1}) {
		t.Errorf("model position = %v", cfg.Viewer.Model.Position)
	}
	if cfg.Viewer.Camera.FOV != 35 {
		t.Errorf("expected fov 35, got %v", cfg.Viewer.Camera.FOV)
	}
	// Keys not in the file keep their defaults
	if cfg.Viewer.Camera.Near != 0.1 {
		t.Errorf("expected near 0.1 kept, got %v", cfg.Viewer.Camera.Near)
	}
	if cfg.Viewer.Scene.ShowGrid {
		t.Error("expected grid hidden")
	}
	if cfg.Viewer.Animation.Loop || cfg.Viewer.Animation.Speed != 0.5 {
		t.Errorf("animation not loaded: %+v", cfg.Viewer.Animation)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("logging not loaded: %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad background", func(c *Config) { c.Viewer.Scene.Background = "black" }, true},
		{"bad marker", func(c *Config) { c.Viewer.Annotation.MarkerColor = "" }, true},
		{"zero width", func(c *Config) { c.Window.Width = 0 }, true},
		{"zero screenshot scale", func(c *Config) { c.Viewer.Screenshot.Scale = 0 }, true},
		{"double screenshot scale", func(c *Config) { c.Viewer.Screenshot.Scale = 2 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBackground(t *testing.T) {
	cfg := Default()
	if got := cfg.Background().Hex(); got != "#1a1a1a" {
		t.Errorf("Background() = %s, want #1a1a1a", got)
	}
	cfg.Viewer.Scene.Background = "nope"
	if got := cfg.Background().Hex(); got != "#000000" {
		t.Errorf("invalid background should fall back to black, got %s", got)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Viewer.Model.Path = "scene.gltf"
	cfg.Viewer.Lighting.Ambient = 0.25

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Viewer.Model.Path != "scene.gltf" || loaded.Viewer.Lighting.Ambient != 0.25 {
		t.Errorf("saved values not reloaded: %+v", loaded.Viewer)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("HOME", tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "model and watch flags",
			setup: func() {
				*flagModel = "/tmp/robot.glb"
				*flagWatch = true
			},
			verify: func(cfg *Config) {
				if cfg.Viewer.Model.Path != "/tmp/robot.glb" || !cfg.Viewer.Model.Watch {
					t.Errorf("model flags not applied: %+v", cfg.Viewer.Model)
				}
			},
			teardown: func() {
				*flagModel = ""
				*flagWatch = false
			},
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Flag overrides the file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalidColor(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("viewer:\n  scene:\n    background: purple\n"), 0644); err != nil {
		t.Fatal(err)
	}
	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected an invalid color to fail Load")
	}
}
