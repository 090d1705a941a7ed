package provider

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"videotextcut/internal/app/config"
	apperrors "videotextcut/internal/app/errors"
)

// ProviderCreator builds a provider from the application configuration
type ProviderCreator func(cfg config.AppConfig, logger *zap.Logger) (TranscriptionProvider, error)

// providerRegistry stores provider creation functions
var (
	providerRegistry = make(map[string]ProviderCreator)
	registryMutex    sync.RWMutex
)

// RegisterProvider registers a provider creator function. Provider packages
// call it from init.
func RegisterProvider(providerType string, creator ProviderCreator) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	providerRegistry[providerType] = creator
}

// GetProviderCreator returns the creator function for a provider type
func GetProviderCreator(providerType string) (ProviderCreator, error) {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	creator, ok := providerRegistry[providerType]
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", apperrors.ErrProviderNotFound, providerType, listLocked())
	}
	return creator, nil
}

// ListRegisteredProviders returns all registered provider types, sorted
func ListRegisteredProviders() []string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	return listLocked()
}

func listLocked() []string {
	providers := make([]string, 0, len(providerRegistry))
	for providerType := range providerRegistry {
		providers = append(providers, providerType)
	}
	sort.Strings(providers)
	return providers
}

// New creates the provider named by cfg.Provider
func New(cfg config.AppConfig, logger *zap.Logger) (TranscriptionProvider, error) {
	creator, err := GetProviderCreator(cfg.Provider)
	if err != nil {
		return nil, err
	}
	return creator(cfg, logger)
}
