package watchlist

import (
	"encoding/json"

	"github.com/grovetools/watchers/errors"
	"github.com/grovetools/watchers/pkg/models"
	"github.com/grovetools/watchers/pkg/nav"
)

// ImportBridge picks up a watcher another part of the application left in
// the import slot and opens it in the wizard.
type ImportBridge struct {
	slot     Slot
	transfer Transfer
	nav      Navigator
}

// NewImportBridge returns a bridge reading slot.
func NewImportBridge(slot Slot, transfer Transfer, navigator Navigator) *ImportBridge {
	return &ImportBridge{slot: slot, transfer: transfer, nav: navigator}
}

// Run takes the slot and applies it in one step. The slot is empty
// afterwards whatever it held.
func (b *ImportBridge) Run() error {
	return b.Apply(b.take())
}

// Apply stages an imported watcher and navigates to the wizard.
func (b *ImportBridge) Apply(msg ImportMsg) error {
	if msg.Err != nil {
		return msg.Err
	}
	if !msg.Present {
		return nil
	}
	b.transfer.SetWatcher(msg.Watcher)
	b.nav.Navigate(nav.WizardPath)
	return nil
}

func (b *ImportBridge) take() ImportMsg {
	raw, ok, err := b.slot.Take()
	if err != nil {
		return ImportMsg{Err: err}
	}
	if !ok || raw == "" {
		return ImportMsg{}
	}

	var w models.Watcher
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return ImportMsg{Err: errors.ImportCorrupt(b.key(), err)}
	}
	return ImportMsg{Watcher: w, Present: true}
}

func (b *ImportBridge) key() string {
	if k, ok := b.slot.(interface{ Key() string }); ok {
		return k.Key()
	}
	return "import"
}
