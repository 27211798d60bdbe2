package notify

import (
	"sync"

	"github.com/nats-io/nats.go"
)

// Publisher NATS 事件发布器。
// endpoint 为空时返回禁用的发布器，Publish 变成 no-op，CLI 离线场景不依赖 NATS。
type Publisher struct {
	conn   *nats.Conn
	mu     sync.RWMutex
	closed bool
}

// NewPublisher 创建发布器，url 为空则禁用
func NewPublisher(url string) (*Publisher, error) {
	if url == "" {
		return &Publisher{}, nil
	}

	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}

	return &Publisher{conn: conn}, nil
}

// PublishRunCompleted 发布回测完成事件
func (p *Publisher) PublishRunCompleted(event *RunCompleted) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.conn == nil || p.closed {
		return nil
	}

	data, err := event.Marshal()
	if err != nil {
		return err
	}

	return p.conn.Publish(TopicRunCompleted, data)
}

// IsConnected 检查发布器是否已连接
func (p *Publisher) IsConnected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.closed && p.conn != nil && !p.conn.IsClosed()
}

// Close 关闭连接
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true

	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
