package config

import "testing"

// Override installs cfg as the global config for the duration of the test
// and restores the previous value on cleanup, so tests never touch disk.
func Override(t testing.TB, cfg Config) {
	t.Helper()
	configMu.RLock()
	prev := globalConfig
	configMu.RUnlock()

	set(cfg)
	t.Cleanup(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig = prev
	})
}
