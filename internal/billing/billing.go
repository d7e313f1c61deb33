// Package billing tracks usage against the assistant's rolling 5-hour UTC
// billing windows and derives the monthly quota status shown in the UI.
package billing

import (
	"time"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/ccboard/ccboard/internal/pricing"
)

const blockDuration = 5 * time.Hour

// BlockStart returns the start of the 5-hour UTC window containing t,
// aligned to the Unix epoch so the same wall-clock instant always maps to
// the same block regardless of when ccboard started running.
func BlockStart(t time.Time) time.Time {
	u := t.UTC()
	epochHours := u.Unix() / 3600
	blockHours := (epochHours / 5) * 5
	return time.Unix(blockHours*3600, 0).UTC()
}

// contribution records what one session last added to a billing block, so
// a later update to the same session can subtract the stale amount before
// adding the new one instead of double-counting.
type contribution struct {
	block  time.Time
	tokens models.TokenCounts
	model  string
}

// Manager accumulates per-block usage across all loaded sessions. It is
// not safe for concurrent use by itself; callers serialize access the same
// way the DataStore serializes its other subsystem writers.
type Manager struct {
	blocks    map[time.Time]*models.BillingBlock
	bySession map[models.SessionID]contribution
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{
		blocks:    map[time.Time]*models.BillingBlock{},
		bySession: map[models.SessionID]contribution{},
	}
}

// UpdateSession records (or re-records) one session's contribution to its
// billing block. primaryModel is used to price all of the session's
// tokens; a session that used more than one model is priced entirely at
// primaryModel's rate, with no per-model cost split.
//
// The billing block is chosen from meta.FirstTimestamp: per-message
// timestamps are not available at the SessionMetadata level, so the whole
// session's usage is assigned to the block containing its first message.
// Calling this twice for the same session (e.g. after an incremental
// reparse) is idempotent - the session's prior contribution is removed
// before the new one is applied.
func (m *Manager) UpdateSession(id models.SessionID, meta models.SessionMetadata, primaryModel string) {
	if meta.FirstTimestamp == nil {
		return
	}
	m.retract(id)

	block := BlockStart(*meta.FirstTimestamp)
	b := m.blockFor(block)
	b.Tokens = b.Tokens.Add(meta.Tokens)
	b.SessionCount++
	b.Cost += pricing.CostForTokens(primaryModel, meta.Tokens)

	m.bySession[id] = contribution{block: block, tokens: meta.Tokens, model: primaryModel}
}

// RemoveSession retracts a session's contribution entirely, used when its
// source file is deleted.
func (m *Manager) RemoveSession(id models.SessionID) {
	m.retract(id)
}

func (m *Manager) retract(id models.SessionID) {
	prev, ok := m.bySession[id]
	if !ok {
		return
	}
	if b, ok := m.blocks[prev.block]; ok {
		b.Tokens = b.Tokens.Sub(prev.tokens)
		b.SessionCount--
		b.Cost -= pricing.CostForTokens(prev.model, prev.tokens)
		if b.SessionCount <= 0 {
			delete(m.blocks, prev.block)
		}
	}
	delete(m.bySession, id)
}

func (m *Manager) blockFor(start time.Time) *models.BillingBlock {
	b, ok := m.blocks[start]
	if !ok {
		b = &models.BillingBlock{Start: start}
		m.blocks[start] = b
	}
	return b
}

// CurrentBlock returns the billing block containing now, or a zero-valued
// block with SessionCount 0 if nothing has been attributed to it yet.
func (m *Manager) CurrentBlock(now time.Time) models.BillingBlock {
	start := BlockStart(now)
	if b, ok := m.blocks[start]; ok {
		return *b
	}
	return models.BillingBlock{Start: start}
}

// Blocks returns every tracked block, most recent first.
func (m *Manager) Blocks() []models.BillingBlock {
	out := make([]models.BillingBlock, 0, len(m.blocks))
	for _, b := range m.blocks {
		out = append(out, *b)
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Start.After(out[i].Start) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}
