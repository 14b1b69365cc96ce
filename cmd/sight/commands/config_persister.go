package commands

import (
	"fmt"
	"sync"
	"time"
)

// ConfigPersister implements the auth.TokenPersister interface.
type ConfigPersister struct {
	mutex sync.Mutex
}

// NewConfigPersister creates a new config persister.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{}
}

// SaveToken stores a freshly issued session token in the config so later
// invocations reuse it instead of logging in again.
func (p *ConfigPersister) SaveToken(apiName, token string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	// Load current config
	config := loadConfig()

	if config.APIs == nil {
		config.APIs = make(map[string]*APIConfig)
	}

	apiConfig, exists := config.APIs[apiName]
	if !exists {
		return fmt.Errorf("API configuration for '%s': %w", apiName, ErrAPINotFound)
	}

	apiConfig.Token = token
	now := time.Now()
	apiConfig.TokenObtainedAt = &now

	// Save the updated config
	return saveConfigStruct(config)
}
