// Package iostore persists assessment runs and repair outcomes.
package iostore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/civicscan/fleetdoctor/internal/contract"
	"github.com/civicscan/fleetdoctor/schema"
)

// StoreManagerImpl manages the assessment store instance.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointer during initialization
	assessment   contract.AssessmentStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetAssessmentStore returns the assessment store, or nil when persistence
// is disabled.
func (mgr *StoreManagerImpl) GetAssessmentStore() contract.AssessmentStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.assessment
}

// Manager is the global store manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDBFilePath returns the default path to the SQLite DB file.
func GetDBFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fleetdoctor.db"
	}
	return filepath.Join(home, ".fleetdoctor", "assessments.db")
}

// InitStores initializes the global store manager. A NoneBackend disables
// persistence entirely; callers see a nil AssessmentStore.
func InitStores(backend schema.StoreBackend, connStr string) error {
	var initErr error
	initOnce.Do(func() {
		if backend == "" || backend == schema.NoneBackend {
			return
		}
		store, err := NewAssessmentStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize assessment store: %w", err)
			return
		}
		Manager.Lock()
		Manager.assessment = store
		Manager.Unlock()
	})
	return initErr
}

// CloseStores closes the global store manager exactly once.
func CloseStores() error {
	var closeErr error
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.assessment != nil {
			closeErr = Manager.assessment.Close()
			Manager.assessment = nil
		}
	})
	return closeErr
}
