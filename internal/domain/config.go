package domain

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// RouterConfig holds the configuration of a router instance.
type RouterConfig struct {
	Name     string            `json:"name"`
	BasePath string            `json:"basePath,omitempty"`
	Port     int               `json:"port,omitempty"`
	Start    string            `json:"start,omitempty"`
	Routes   map[string]string `json:"routes"`
}

// GenerateShortID creates a short UUID, used as history entry key.
func GenerateShortID() string {
	return uuid.New().String()[:8]
}

// NewRouterConfig creates a router configuration with defaults.
func NewRouterConfig(name string) RouterConfig {
	if name == "" {
		name = "waypoint"
	}
	return RouterConfig{
		Name:   name,
		Port:   3001,
		Start:  "/",
		Routes: make(map[string]string),
	}
}

// LoadConfig decodes a JSON configuration, filling unset fields with defaults.
func LoadConfig(r io.Reader) (RouterConfig, error) {
	config := NewRouterConfig("")
	if err := json.NewDecoder(r).Decode(&config); err != nil {
		return RouterConfig{}, fmt.Errorf("decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return RouterConfig{}, err
	}
	return config, nil
}

// Validate checks that every route template compiles.
func (c RouterConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for name, template := range c.Routes {
		if name == "" {
			return fmt.Errorf("route name cannot be empty")
		}
		if _, err := GetMatcher(name, JoinTemplate(c.BasePath, template)); err != nil {
			return err
		}
	}
	return nil
}
