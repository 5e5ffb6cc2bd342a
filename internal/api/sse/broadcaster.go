package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/pinochle-score/internal/model"
)

// Broadcaster publishes game events to the game's SSE clients
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Publish sends each event as JSON, named by its type. Games nobody is
// watching are skipped.
func (b *Broadcaster) Publish(events []model.Event) {
	for _, event := range events {
		hub := b.hubManager.GetHub(event.GameID)
		if hub == nil {
			continue
		}

		data, err := json.Marshal(event)
		if err != nil {
			b.logger.Error("sse failed to encode event",
				slog.String("game_id", string(event.GameID)),
				slog.String("type", string(event.Type)),
				slog.Any("error", err))
			continue
		}
		hub.BroadcastEvent(string(event.Type), string(data))
	}
}
