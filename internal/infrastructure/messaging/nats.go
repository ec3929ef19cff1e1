package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/sanosuguru/go-event-participation/internal/config"
)

// Publisher はイベントのライフサイクル通知を NATS に送る
type Publisher struct {
	conn   *nats.Conn
	prefix string
}

// NewPublisher は NATS に接続する
func NewPublisher(cfg config.NATSConfig) (*Publisher, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.Name("event-participation"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("NATS接続に失敗しました: %w", err)
	}
	return &Publisher{conn: conn, prefix: cfg.SubjectPrefix}, nil
}

// Publish は payload を JSON にして subject に送る
// subject には設定したプレフィックスが付く
func (p *Publisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("通知のエンコードに失敗: %w", err)
	}
	full := Subject(p.prefix, subject)
	if err := p.conn.Publish(full, data); err != nil {
		return fmt.Errorf("通知の送信に失敗しました (subject=%s): %w", full, err)
	}
	return nil
}

// Close は未送信のメッセージを送ってから切断する
func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}

// Subject はプレフィックス付きのサブジェクトを返す
func Subject(prefix, subject string) string {
	if prefix == "" {
		return subject
	}
	return prefix + "." + subject
}
