package introductions

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Player delivers an introduction to the user's client. Stop interrupts any
// in-flight playback; Speak callers always stop before playing so audio
// never overlaps.
type Player interface {
	Play(ctx context.Context, audio []byte, text string) error
	Stop(ctx context.Context)
}

// NopPlayer discards playback. Used when no delivery channel is wired.
type NopPlayer struct{}

func (NopPlayer) Play(ctx context.Context, audio []byte, text string) error { return nil }
func (NopPlayer) Stop(ctx context.Context)                                  {}

// AudioChannel is the per-user pub/sub channel playback events go out on.
// The websocket layer subscribes and forwards frames to the client.
func AudioChannel(userID string) string {
	return "matchmaking:" + userID + ":audio"
}

type playEvent struct {
	Type      string `json:"type"` // play|stop
	Text      string `json:"text,omitempty"`
	AudioB64  string `json:"audio,omitempty"`
	MimeType  string `json:"mime_type,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// ChannelPlayer publishes play/stop events to a user's audio channel over
// redis pub/sub. Delivery is fire-and-forget.
type ChannelPlayer struct {
	rdb    *redis.Client
	userID string
	log    *logrus.Entry
	nowMS  func() int64
}

func NewChannelPlayer(rdb *redis.Client, userID string, log *logrus.Entry, nowMS func() int64) *ChannelPlayer {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &ChannelPlayer{rdb: rdb, userID: userID, log: log, nowMS: nowMS}
}

func (p *ChannelPlayer) Play(ctx context.Context, audio []byte, text string) error {
	ev := playEvent{
		Type:      "play",
		Text:      text,
		Timestamp: p.nowMS(),
	}
	if len(audio) > 0 {
		ev.AudioB64 = base64.StdEncoding.EncodeToString(audio)
		ev.MimeType = "audio/mpeg"
	}
	return p.publish(ctx, ev)
}

func (p *ChannelPlayer) Stop(ctx context.Context) {
	if err := p.publish(ctx, playEvent{Type: "stop", Timestamp: p.nowMS()}); err != nil {
		p.log.WithError(err).WithField("user_id", p.userID).Warn("failed to publish stop event")
	}
}

func (p *ChannelPlayer) publish(ctx context.Context, ev playEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, AudioChannel(p.userID), payload).Err()
}
