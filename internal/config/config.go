// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Logging LoggingConfig `yaml:"logging"`
}

// Vec3 is a point or direction in config files.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	Samples    int    `yaml:"samples"`
}

// ViewerConfig groups the scene parameters.
type ViewerConfig struct {
	Model      ModelConfig      `yaml:"model"`
	Camera     CameraConfig     `yaml:"camera"`
	Lighting   LightingConfig   `yaml:"lighting"`
	Scene      SceneConfig      `yaml:"scene"`
	Material   MaterialConfig   `yaml:"material"`
	Animation  AnimationConfig  `yaml:"animation"`
	Annotation AnnotationConfig `yaml:"annotation"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
}

// ModelConfig is the file to open and the transform of its root group.
type ModelConfig struct {
	Path     string  `yaml:"path"`
	Watch    bool    `yaml:"watch"`
	Position Vec3    `yaml:"position"`
	Rotation Vec3    `yaml:"rotation"` // Euler XYZ, radians
	Scale    float64 `yaml:"scale"`
}

// CameraConfig holds the initial camera and orbit settings.
type CameraConfig struct {
	Position    Vec3    `yaml:"position"`
	FOV         float64 `yaml:"fov"`
	Near        float64 `yaml:"near"`
	Far         float64 `yaml:"far"`
	Damping     float64 `yaml:"damping"`
	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`
}

// LightingConfig holds the ambient and directional light.
type LightingConfig struct {
	Ambient     float64 `yaml:"ambient"`
	Directional float64 `yaml:"directional"`
	Direction   Vec3    `yaml:"direction"`
}

// SceneConfig holds background and grid settings.
type SceneConfig struct {
	Background    string  `yaml:"background"`
	ShowGrid      bool    `yaml:"show_grid"`
	GridSize      float64 `yaml:"grid_size"`
	GridDivisions int     `yaml:"grid_divisions"`
}

// MaterialConfig is the starting value of the material controls.
type MaterialConfig struct {
	Color             string  `yaml:"color"`
	Metalness         float64 `yaml:"metalness"`
	Roughness         float64 `yaml:"roughness"`
	Opacity           float64 `yaml:"opacity"`
	Emissive          string  `yaml:"emissive"`
	EmissiveIntensity float64 `yaml:"emissive_intensity"`
}

// AnimationConfig holds playback defaults.
type AnimationConfig struct {
	Speed float64 `yaml:"speed"`
	Loop  bool    `yaml:"loop"`
}

// AnnotationConfig holds defaults for new annotations.
type AnnotationConfig struct {
	NoteOffsetY float64 `yaml:"note_offset_y"`
	Text        string  `yaml:"text"`
	FontSize    float64 `yaml:"font_size"`
	TextColor   string  `yaml:"text_color"`
	MarkerColor string  `yaml:"marker_color"`
}

// ScreenshotConfig controls F12 captures. An empty Dir means the
// screenshots folder under ConfigDir. Scale multiplies the window size.
type ScreenshotConfig struct {
	Dir   string `yaml:"dir"`
	Scale int    `yaml:"scale"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:   "GLB Studio",
			Width:   1280,
			Height:  720,
			VSync:   true,
			Samples: 4,
		},
		Viewer: ViewerConfig{
			Model: ModelConfig{Scale: 1},
			Camera: CameraConfig{
				Position:    Vec3{0, 5, 10},
				FOV:         50,
				Near:        0.1,
				Far:         1000,
				Damping:     0.05,
				MinDistance: 1,
				MaxDistance: 100,
			},
			Lighting: LightingConfig{
				Ambient:     0.5,
				Directional: 1,
				Direction:   Vec3{5, 5, 5},
			},
			Scene: SceneConfig{
				Background:    "#1a1a1a",
				ShowGrid:      true,
				GridSize:      10,
				GridDivisions: 10,
			},
			Material: MaterialConfig{
				Color:     "#ffffff",
				Metalness: 0.5,
				Roughness: 0.5,
				Opacity:   1,
				Emissive:  "#000000",
			},
			Animation: AnimationConfig{Speed: 1, Loop: true},
			Annotation: AnnotationConfig{
				NoteOffsetY: 0.5,
				Text:        "New Text",
				FontSize:    16,
				TextColor:   "#ffffff",
				MarkerColor: "#ef4444",
			},
			Screenshot: ScreenshotConfig{Scale: 1},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks that every color setting parses as #rrggbb.
func (c *Config) Validate() error {
	colors := []struct{ key, value string }{
		{"viewer.scene.background", c.Viewer.Scene.Background},
		{"viewer.material.color", c.Viewer.Material.Color},
		{"viewer.material.emissive", c.Viewer.Material.Emissive},
		{"viewer.annotation.text_color", c.Viewer.Annotation.TextColor},
		{"viewer.annotation.marker_color", c.Viewer.Annotation.MarkerColor},
	}
	for _, col := range colors {
		if _, err := colorful.Hex(col.value); err != nil {
			return fmt.Errorf("%s: %w", col.key, err)
		}
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d is not positive", c.Window.Width, c.Window.Height)
	}
	if s := c.Viewer.Screenshot.Scale; s < 1 || s > 8 {
		return fmt.Errorf("viewer.screenshot.scale %d outside 1..8", s)
	}
	return nil
}

// Background returns the parsed background color, falling back to black.
func (c *Config) Background() colorful.Color {
	col, err := colorful.Hex(c.Viewer.Scene.Background)
	if err != nil {
		return colorful.Color{}
	}
	return col
}
