package watchlist

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/grovetools/watchers/errors"
	"github.com/grovetools/watchers/pkg/models"
)

// DeletePhase is where a delete request stands.
type DeletePhase int

const (
	DeleteIdle DeletePhase = iota
	DeleteConfirmationPending
	DeleteConfirmed
	DeleteRemotePending
	DeleteRemoved
	DeleteRemovedOptimistically
	DeleteReportedError
	DeleteCancelled
)

var deletePhaseNames = map[DeletePhase]string{
	DeleteIdle:                  "idle",
	DeleteConfirmationPending:   "confirmation_pending",
	DeleteConfirmed:             "confirmed",
	DeleteRemotePending:         "remote_delete_pending",
	DeleteRemoved:               "removed",
	DeleteRemovedOptimistically: "removed_optimistically",
	DeleteReportedError:         "reported_error",
	DeleteCancelled:             "cancelled",
}

func (p DeletePhase) String() string {
	if name, ok := deletePhaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Terminal reports whether no further transition follows.
func (p DeletePhase) Terminal() bool {
	switch p {
	case DeleteRemoved, DeleteRemovedOptimistically, DeleteReportedError, DeleteCancelled:
		return true
	}
	return false
}

type deleteOp struct {
	id      string
	watcher models.Watcher
	// index is the position at request time.
	index int
	phase DeletePhase
}

// Delete asks for confirmation and, on yes, deletes the watcher remotely.
// The entity and its position are captured now; a later reload does not
// change which watcher is removed.
func (c *Controller) Delete(id string) tea.Cmd {
	if c.closed {
		return nil
	}
	w, ok := c.collection.Get(id)
	if !ok {
		c.deps.Notifier.Error(errors.WatcherNotFound(id))
		return nil
	}

	c.nextReq++
	op := &deleteOp{
		id:      id,
		watcher: w.Clone(),
		index:   c.collection.IndexOf(id),
		phase:   DeleteConfirmationPending,
	}
	c.deletes[c.nextReq] = op
	c.lastPhase = op.phase

	return c.deps.Confirmer.Confirm(ConfirmRequest{
		RequestID: c.nextReq,
		Title:     "Delete watcher",
		Message:   fmt.Sprintf("Are you sure you want to delete watcher %q?", w.Source.Title),
	})
}

// DeletePhase returns the phase of the most recent delete request.
func (c *Controller) DeletePhase() DeletePhase {
	return c.lastPhase
}

// PendingDeletes returns the number of unfinished delete requests.
func (c *Controller) PendingDeletes() int {
	return len(c.deletes)
}

func (c *Controller) setPhase(op *deleteOp, phase DeletePhase) {
	op.phase = phase
	c.lastPhase = phase
}

func (c *Controller) handleConfirm(msg ConfirmResolvedMsg) tea.Cmd {
	op, ok := c.deletes[msg.RequestID]
	if !ok || op.phase != DeleteConfirmationPending {
		return nil
	}
	if msg.Response != ResponseYes {
		delete(c.deletes, msg.RequestID)
		c.setPhase(op, DeleteCancelled)
		c.logger.WithField("watcher_id", op.id).Debug("Delete cancelled")
		return nil
	}

	c.setPhase(op, DeleteConfirmed)
	store, id, req := c.deps.Store, op.id, msg.RequestID
	c.markWrite(id)
	c.setPhase(op, DeleteRemotePending)
	return c.call(func(ctx context.Context) tea.Msg {
		_, err := store.Delete(ctx, id)
		return DeletedMsg{RequestID: req, Err: err}
	})
}

func (c *Controller) handleDeleted(msg DeletedMsg) tea.Cmd {
	op, ok := c.deletes[msg.RequestID]
	if !ok {
		return nil
	}
	delete(c.deletes, msg.RequestID)

	if msg.Err == nil {
		c.collection.Remove(op.id)
		c.setPhase(op, DeleteRemoved)
		c.deps.Notifier.Info(fmt.Sprintf("Deleted watcher %q", op.watcher.Source.Title))
		return nil
	}

	c.forgetEcho(op.id)
	// A captured entity still in the list is removed anyway and the failure
	// is only logged. One a reload already dropped is reported.
	if op.index >= 0 && c.collection.Remove(op.id) {
		c.setPhase(op, DeleteRemovedOptimistically)
		c.logger.WithError(msg.Err).WithField("watcher_id", op.id).Warn("Remote delete failed; removed locally")
		return nil
	}
	c.setPhase(op, DeleteReportedError)
	c.deps.Notifier.Error(msg.Err)
	return nil
}
