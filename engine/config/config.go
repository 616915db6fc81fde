// Package config holds the viewer configuration. Values come from Default and may be
// overridden by a TOML file.
package config

import (
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// EnvPath names the environment variable that points at a config file.
const EnvPath = "OXY_VIEWER_CONFIG"

// DefaultPath is the config file looked up in the working directory when EnvPath is unset.
const DefaultPath = "oxy-viewer.toml"

// Layout values for SceneConfig.Layout.
const (
	LayoutSingle = "single"
	LayoutGrid   = "grid"
)

// Light rotation policies for LightConfig.Policy.
const (
	PolicyInPlace     = "in_place"
	PolicyAccumulator = "accumulator"
)

// Config is the complete viewer configuration.
type Config struct {
	LogLevel  string `toml:"log_level"`
	Profiling bool   `toml:"profiling"`

	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Camera   CameraConfig   `toml:"camera"`
	Light    LightConfig    `toml:"light"`
	Scene    SceneConfig    `toml:"scene"`
	Loader   LoaderConfig   `toml:"loader"`
}

// WindowConfig sizes and titles the window.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// RendererConfig configures the GPU context.
type RendererConfig struct {
	// PresentMode is "vsync" or "uncapped".
	PresentMode   string     `toml:"present_mode"`
	ClearColor    [4]float64 `toml:"clear_color"`
	ForceSoftware bool       `toml:"force_software"`
	// DepthFormat is "depth32float" or "depth24plus".
	DepthFormat string `toml:"depth_format"`
}

// CameraConfig holds the initial camera pose, the projection and the controller tuning.
// Angles are in degrees.
type CameraConfig struct {
	Position      [3]float32 `toml:"position"`
	YawDeg        float32    `toml:"yaw_deg"`
	PitchDeg      float32    `toml:"pitch_deg"`
	FovyDeg       float32    `toml:"fovy_deg"`
	ZNear         float32    `toml:"znear"`
	ZFar          float32    `toml:"zfar"`
	Speed         float32    `toml:"speed"`
	Sensitivity   float32    `toml:"sensitivity"`
	ScrollScale   float32    `toml:"scroll_scale"`
	PitchLimitDeg float32    `toml:"pitch_limit_deg"`
}

// LightConfig configures the single rotating point light.
type LightConfig struct {
	Position [4]float32 `toml:"position"`
	Color    [4]float32 `toml:"color"`
	RateDeg  float32    `toml:"rate_deg"`
	Policy   string     `toml:"policy"`
}

// SceneConfig selects the mesh and how its instances are laid out.
// An empty Model draws the built-in cube.
type SceneConfig struct {
	Model         string  `toml:"model"`
	Layout        string  `toml:"layout"`
	GridPerRow    int     `toml:"grid_per_row"`
	GridSpacing   float32 `toml:"grid_spacing"`
	InstanceScale float32 `toml:"instance_scale"`
}

// LoaderConfig tunes asset loading.
type LoaderConfig struct {
	Workers int `toml:"workers"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		LogLevel: "info",
		Window: WindowConfig{
			Title:  "oxy-viewer",
			Width:  1280,
			Height: 720,
		},
		Renderer: RendererConfig{
			PresentMode: "vsync",
			ClearColor:  [4]float64{0, 0, 0, 1},
			DepthFormat: "depth32float",
		},
		Camera: CameraConfig{
			Position:      [3]float32{0, 5, 10},
			YawDeg:        -90,
			PitchDeg:      -20,
			FovyDeg:       45,
			ZNear:         0.1,
			ZFar:          100,
			Speed:         4,
			Sensitivity:   0.4,
			ScrollScale:   1,
			PitchLimitDeg: 89,
		},
		Light: LightConfig{
			Position: [4]float32{2, 2, 2, 1},
			Color:    [4]float32{1, 1, 1, 1},
			RateDeg:  60,
			Policy:   PolicyInPlace,
		},
		Scene: SceneConfig{
			Layout:        LayoutGrid,
			GridPerRow:    10,
			GridSpacing:   3,
			InstanceScale: 1,
		},
		Loader: LoaderConfig{
			Workers: 4,
		},
	}
}

// Load reads the TOML file at path over the defaults and validates the result.
// Keys missing from the file keep their default values.
//
// Parameters:
//   - path: the TOML file to read
//
// Returns:
//   - Config: the merged configuration
//   - error: a KindFatalInit error if the file cannot be read, parsed or validated
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, common.NewError(common.KindFatalInit, "config.Load", errors.Wrapf(err, "read %s", path))
	}
	return Parse(data)
}

// Parse decodes TOML bytes over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, common.NewError(common.KindFatalInit, "config.Parse", errors.Wrap(err, "decode toml"))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv resolves the config the same way the viewer binary does: the file named by
// EnvPath, otherwise DefaultPath if it exists, otherwise Default.
//
// Returns:
//   - Config: the resolved configuration
//   - string: the file that was loaded, empty when defaults were used
//   - error: any load error
func FromEnv() (Config, string, error) {
	if path := os.Getenv(EnvPath); path != "" {
		cfg, err := Load(path)
		return cfg, path, err
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		cfg, err := Load(DefaultPath)
		return cfg, DefaultPath, err
	}
	return Default(), "", nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	const op = "config.Validate"
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return common.Errorf(common.KindFatalInit, op, "window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	case c.Camera.FovyDeg <= 0 || c.Camera.FovyDeg >= 180:
		return common.Errorf(common.KindFatalInit, op, "fovy_deg must be in (0, 180), got %v", c.Camera.FovyDeg)
	case c.Camera.ZNear <= 0 || c.Camera.ZFar <= c.Camera.ZNear:
		return common.Errorf(common.KindFatalInit, op, "need 0 < znear < zfar, got %v and %v", c.Camera.ZNear, c.Camera.ZFar)
	case c.Camera.PitchLimitDeg <= 0 || c.Camera.PitchLimitDeg >= 90:
		return common.Errorf(common.KindFatalInit, op, "pitch_limit_deg must be in (0, 90), got %v", c.Camera.PitchLimitDeg)
	case c.Scene.GridPerRow < 0:
		return common.Errorf(common.KindFatalInit, op, "grid_per_row must not be negative, got %d", c.Scene.GridPerRow)
	case c.Loader.Workers < 0:
		return common.Errorf(common.KindFatalInit, op, "workers must not be negative, got %d", c.Loader.Workers)
	}

	switch strings.ToLower(c.Renderer.PresentMode) {
	case "vsync", "uncapped":
	default:
		return common.Errorf(common.KindFatalInit, op, "unknown present_mode %q", c.Renderer.PresentMode)
	}
	switch strings.ToLower(c.Renderer.DepthFormat) {
	case "depth32float", "depth24plus":
	default:
		return common.Errorf(common.KindFatalInit, op, "unknown depth_format %q", c.Renderer.DepthFormat)
	}
	switch c.Scene.Layout {
	case LayoutSingle, LayoutGrid:
	default:
		return common.Errorf(common.KindFatalInit, op, "unknown scene layout %q", c.Scene.Layout)
	}
	switch c.Light.Policy {
	case PolicyInPlace, PolicyAccumulator:
	default:
		return common.Errorf(common.KindFatalInit, op, "unknown light policy %q", c.Light.Policy)
	}
	return nil
}
