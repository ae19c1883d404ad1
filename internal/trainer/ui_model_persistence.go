package trainer

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Preferences are the choices remembered between runs.
type Preferences struct {
	LastPlanID  string `json:"last_plan_id,omitempty"`
	Rounds      int    `json:"rounds,omitempty"`
	RestSeconds *int   `json:"rest_seconds,omitempty"`
	Muted       bool   `json:"muted"`
}

type uiModelPersistence struct {
	filePath string
	logger   *log.Logger

	mu   sync.Mutex
	data Preferences
}

// newUIModelPersistence loads preferences from filePath. An empty path keeps
// preferences in memory only.
func newUIModelPersistence(filePath string, logger *log.Logger) *uiModelPersistence {
	p := &uiModelPersistence{
		filePath: filePath,
		logger:   logger,
	}
	p.load()
	return p
}

func (p *uiModelPersistence) get() Preferences {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data
}

func (p *uiModelPersistence) update(fn func(*Preferences)) {
	p.mu.Lock()
	fn(&p.data)
	data := p.data
	p.mu.Unlock()

	p.save(data)
}

func (p *uiModelPersistence) load() {
	if p.filePath == "" {
		return
	}
	raw, err := os.ReadFile(p.filePath)
	if err != nil {
		p.logger.Printf("UIModelPersistence: load %s (no existing file)", p.filePath)
		return
	}
	var data Preferences
	if err := json.Unmarshal(raw, &data); err != nil {
		p.logger.Printf("UIModelPersistence: load %s failed to parse: %v", p.filePath, err)
		return
	}
	p.data = data
	p.logger.Printf("UIModelPersistence: load %s -> %+v", p.filePath, data)
}

func (p *uiModelPersistence) save(data Preferences) {
	if p.filePath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(p.filePath), 0755); err != nil {
		p.logger.Printf("UIModelPersistence: save mkdir failed: %v", err)
		return
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		p.logger.Printf("UIModelPersistence: save marshal failed: %v", err)
		return
	}
	if err := os.WriteFile(p.filePath, raw, 0644); err != nil {
		p.logger.Printf("UIModelPersistence: save %s failed: %v", p.filePath, err)
	}
}
