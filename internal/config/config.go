// Package config loads bodyfit settings from TOML.
package config

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"bodyfit/internal/joints"
)

// Paths holds the output folders. Results, images and meshes are written
// below <folder>/<serial>/<frame>/.
type Paths struct {
	ResultFolder string `toml:"result_folder"`
	ImageFolder  string `toml:"image_folder"`
	MeshFolder   string `toml:"mesh_folder"`
}

// Fitting holds the model and output options.
type Fitting struct {
	ModelType  string  `toml:"model_type"`
	PoseFormat string  `toml:"pose_format"`
	Rho        float64 `toml:"rho"`
	Photoscan  bool    `toml:"photoscan"`
	UseDecoder bool    `toml:"use_decoder"`
	SaveMeshes bool    `toml:"save_meshes"`
	SaveImages bool    `toml:"save_images"`
}

// Config is the full settings file.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Fitting Fitting `toml:"fitting"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Paths: Paths{
			ResultFolder: filepath.Join("output", "results"),
			ImageFolder:  filepath.Join("output", "images"),
			MeshFolder:   filepath.Join("output", "meshes"),
		},
		Fitting: Fitting{
			ModelType:  joints.ModelSMPL,
			PoseFormat: joints.FormatCOCO17,
			Rho:        100,
			UseDecoder: true,
		},
	}
}

// Load reads path over the defaults. An empty path or a missing file yields
// the defaults; the returned bool reports whether a file was read.
func Load(path string) (*Config, bool, error) {
	cfg := Default()
	exists := false

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, false, errors.Wrap(err, "read config")
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return nil, false, errors.Wrap(err, "parse config")
			}
			exists = true
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	return &cfg, exists, nil
}

// Validate checks that the settings can drive a fit.
func (c *Config) Validate() error {
	if c.Paths.ResultFolder == "" {
		return errors.New("paths.result_folder must be set")
	}
	if c.Paths.ImageFolder == "" {
		return errors.New("paths.image_folder must be set")
	}
	if c.Paths.MeshFolder == "" {
		return errors.New("paths.mesh_folder must be set")
	}
	if !(c.Fitting.Rho > 0) {
		return errors.Errorf("fitting.rho must be positive, got %v", c.Fitting.Rho)
	}
	if _, err := joints.BuildIndex(c.Fitting.ModelType, c.Fitting.PoseFormat); err != nil {
		return errors.Wrap(err, "fitting")
	}
	return nil
}

// Marshal renders the config as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
