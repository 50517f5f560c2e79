// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/miastudio/gemchat-tui/internal/config"
	"github.com/miastudio/gemchat-tui/internal/model"
)

// =============================================================================
// ERRORS AND KEYS
// =============================================================================

var (
	// ErrInvalidSlotID is returned for empty or whitespace-only slot IDs.
	ErrInvalidSlotID = errors.New("invalid slot ID")
)

const (
	// localSessionKey is the fixed key of the single local session slot.
	localSessionKey = "geminiChatSession"

	// cloudSlotPrefix namespaces cloud slot keys.
	cloudSlotPrefix = "cloud_session_"
)

// =============================================================================
// STORED PAYLOAD
// =============================================================================

// storedMessage is the persisted form of a transcript message. Timestamps
// round-trip at millisecond precision.
type storedMessage struct {
	ID        string            `json:"id"`
	Sender    model.Sender      `json:"sender"`
	Timestamp int64             `json:"timestamp"` // Unix milliseconds
	Text      string            `json:"text"`
	Category  model.Category    `json:"category"`
	IsError   bool              `json:"is_error,omitempty"`
	Image     *model.Attachment `json:"image,omitempty"`
	Audio     *model.Attachment `json:"audio,omitempty"`

	PersonaName   string `json:"persona_name,omitempty"`
	PersonaGlyph  string `json:"persona_glyph,omitempty"`
	PersonaAvatar string `json:"persona_avatar,omitempty"`
	PersonaStyle  string `json:"persona_style,omitempty"`
}

// slotPayload is the wholesale JSON body of one saved session.
type slotPayload struct {
	Messages []storedMessage  `json:"messages"`
	Settings *config.Settings `json:"settings,omitempty"`
}

func toStored(msgs []*model.Message) []storedMessage {
	stored := make([]storedMessage, 0, len(msgs))
	for _, m := range msgs {
		// In-flight messages are not persisted.
		if m.IsStreaming {
			continue
		}
		stored = append(stored, storedMessage{
			ID:            m.ID,
			Sender:        m.Sender,
			Timestamp:     m.Timestamp.UnixMilli(),
			Text:          m.Text,
			Category:      m.Category,
			IsError:       m.IsError,
			Image:         m.Image,
			Audio:         m.Audio,
			PersonaName:   m.PersonaName,
			PersonaGlyph:  m.PersonaGlyph,
			PersonaAvatar: m.PersonaAvatar,
			PersonaStyle:  m.PersonaStyle,
		})
	}
	return stored
}

func fromStored(stored []storedMessage) []*model.Message {
	msgs := make([]*model.Message, 0, len(stored))
	for _, s := range stored {
		msgs = append(msgs, &model.Message{
			ID:            s.ID,
			Sender:        s.Sender,
			Timestamp:     time.UnixMilli(s.Timestamp),
			Text:          s.Text,
			Category:      s.Category,
			IsError:       s.IsError,
			Image:         s.Image,
			Audio:         s.Audio,
			PersonaName:   s.PersonaName,
			PersonaGlyph:  s.PersonaGlyph,
			PersonaAvatar: s.PersonaAvatar,
			PersonaStyle:  s.PersonaStyle,
		})
	}
	return msgs
}

// SlotData is one loaded cloud slot: the transcript plus the settings
// snapshot captured when it was saved.
type SlotData struct {
	Messages []*model.Message
	Settings *config.Settings
}

// =============================================================================
// GATEWAY
// =============================================================================

// Gateway is the session persistence API. The local slot lives in the
// file backend; cloud slots live in the SQLite backend.
type Gateway struct {
	local KV
	cloud KV
}

// NewGateway creates a gateway over the two backends.
func NewGateway(local, cloud KV) *Gateway {
	return &Gateway{local: local, cloud: cloud}
}

// =============================================================================
// LOCAL SLOT
// =============================================================================

// SaveLocal persists the transcript to the single local slot.
func (g *Gateway) SaveLocal(msgs []*model.Message) error {
	data, err := json.Marshal(slotPayload{Messages: toStored(msgs)})
	if err != nil {
		return err
	}
	return g.local.Set(context.Background(), localSessionKey, data)
}

// LoadLocal restores the local slot. A missing slot returns ok=false; a
// corrupt slot is evicted and treated as missing.
func (g *Gateway) LoadLocal() ([]*model.Message, bool) {
	ctx := context.Background()
	data, found, err := g.local.Get(ctx, localSessionKey)
	if err != nil || !found {
		return nil, false
	}

	var payload slotPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Printf("storage: evicting corrupt local session: %v", err)
		g.local.Delete(ctx, localSessionKey)
		return nil, false
	}
	return fromStored(payload.Messages), true
}

// ClearLocal removes the local slot.
func (g *Gateway) ClearLocal() error {
	return g.local.Delete(context.Background(), localSessionKey)
}

// =============================================================================
// CLOUD SLOTS
// =============================================================================

// validateSlotID trims and checks a caller-supplied slot ID.
func validateSlotID(slotID string) (string, error) {
	trimmed := strings.TrimSpace(slotID)
	if trimmed == "" {
		return "", ErrInvalidSlotID
	}
	return trimmed, nil
}

// SaveCloud persists the transcript and a settings snapshot to a named
// cloud slot.
func (g *Gateway) SaveCloud(ctx context.Context, slotID string, msgs []*model.Message, settings *config.Settings) error {
	id, err := validateSlotID(slotID)
	if err != nil {
		return err
	}

	data, err := json.Marshal(slotPayload{
		Messages: toStored(msgs),
		Settings: settings,
	})
	if err != nil {
		return err
	}
	return g.cloud.Set(ctx, cloudSlotPrefix+id, data)
}

// LoadCloud restores a named cloud slot. A missing slot returns ok=false
// without error; a corrupt slot is evicted and treated as missing.
func (g *Gateway) LoadCloud(ctx context.Context, slotID string) (*SlotData, bool, error) {
	id, err := validateSlotID(slotID)
	if err != nil {
		return nil, false, err
	}

	data, found, err := g.cloud.Get(ctx, cloudSlotPrefix+id)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	var payload slotPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Printf("storage: evicting corrupt cloud slot %q: %v", id, err)
		g.cloud.Delete(ctx, cloudSlotPrefix+id)
		return nil, false, nil
	}

	return &SlotData{
		Messages: fromStored(payload.Messages),
		Settings: payload.Settings,
	}, true, nil
}

// ListCloudSlots returns the IDs of all saved cloud slots, sorted.
func (g *Gateway) ListCloudSlots(ctx context.Context) ([]string, error) {
	keys, err := g.cloud.KeysWithPrefix(ctx, cloudSlotPrefix)
	if err != nil {
		return nil, err
	}

	slots := make([]string, 0, len(keys))
	for _, key := range keys {
		slots = append(slots, strings.TrimPrefix(key, cloudSlotPrefix))
	}
	return slots, nil
}

// DeleteCloud removes a named cloud slot. Deleting an absent slot is not
// an error.
func (g *Gateway) DeleteCloud(ctx context.Context, slotID string) error {
	id, err := validateSlotID(slotID)
	if err != nil {
		return err
	}
	return g.cloud.Delete(ctx, cloudSlotPrefix+id)
}

// Close releases both backends.
func (g *Gateway) Close() error {
	lerr := g.local.Close()
	cerr := g.cloud.Close()
	if lerr != nil {
		return lerr
	}
	return cerr
}
