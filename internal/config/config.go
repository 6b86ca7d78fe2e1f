// Package config loads and stores the shell daemon's configuration.
package config

import "image"

var defaultConfig = Config{
	WorkArea: WorkArea{W: 1920, H: 1080},
}

type Config struct {
	// Socket is the path to listen on. Empty picks the first free
	// wayland-N name in the runtime directory.
	Socket   string   `yaml:"socket"`
	WorkArea WorkArea `yaml:"work_area"`
}

type WorkArea struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

func (w WorkArea) Rect() image.Rectangle {
	return image.Rect(w.X, w.Y, w.X+w.W, w.Y+w.H)
}

type Driver interface {
	Exists() (bool, error)
	Write(cfg Config) error
	Read() (Config, error)
}

// NewStore wraps driver, writing the default configuration first if
// none exists yet.
func NewStore(driver Driver) (Store, error) {
	exists, err := driver.Exists()
	if err != nil {
		return Store{}, err
	}
	if !exists {
		if err := driver.Write(defaultConfig); err != nil {
			return Store{}, err
		}
	}

	return Store{
		driver: driver,
	}, nil
}

type Store struct {
	driver Driver
}

func (s *Store) GetConfig() (Config, error) {
	return s.driver.Read()
}

func (s *Store) UpdateConfig(fn func(cfg Config) (Config, error)) error {
	cfg, err := s.driver.Read()
	if err != nil {
		return err
	}

	cfg, err = fn(cfg)
	if err != nil {
		return err
	}

	return s.driver.Write(cfg)
}
