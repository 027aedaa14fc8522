package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/oddsylabs/oddsy/internal/markets"
	"github.com/oddsylabs/oddsy/internal/snapshot"
)

// rowMessage is the per-row payload published after each refresh. Consumers
// correlate rows belonging to the same refresh by snapshot ID.
type rowMessage struct {
	SnapshotID string             `json:"snapshot_id"`
	TakenAt    string             `json:"taken_at"`
	Row        markets.DisplayRow `json:"row"`
}

// PublishSnapshot writes one message per row, keyed platform-ticker so a
// market's updates land on a stable partition. A nil writer or empty
// snapshot is a no-op.
func PublishSnapshot(ctx context.Context, writer *kafka.Writer, snap *snapshot.Snapshot) error {
	if writer == nil || snap == nil || len(snap.Rows) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(snap.Rows))
	for _, row := range snap.Rows {
		msg := rowMessage{
			SnapshotID: snap.ID.String(),
			TakenAt:    snap.TakenAt.Format(time.RFC3339Nano),
			Row:        row,
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("marshal row %s: %w", row.Ticker, err)
		}
		key := fmt.Sprintf("%s-%s", row.Platform, row.Ticker)
		msgs = append(msgs, kafka.Message{Key: []byte(key), Value: payload})
	}

	if err := writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d snapshot messages: %w", len(msgs), err)
	}
	return nil
}

// Sink adapts a writer into a snapshot sink.
func Sink(writer *kafka.Writer) func(ctx context.Context, snap *snapshot.Snapshot) error {
	return func(ctx context.Context, snap *snapshot.Snapshot) error {
		return PublishSnapshot(ctx, writer, snap)
	}
}
