package service

import (
	"context"
	"log"
	"time"

	"Hive_Community/internal/model"
)

type Sender func(ctx context.Context, ob *model.MemberOutbox) error

// OutboxRelayer 成员事件投递器，从 outbox 表拉取并异步交给 kafka
type OutboxRelayer struct {
	st        OutboxStore
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(st OutboxStore, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		st:        st,
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// Run 启动器，ctx 取消后退出
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.st.ListPendingOutbox(ctx, r.batchSize)
	if err != nil {
		log.Printf("outbox query err: %v", err)
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			_ = r.st.MarkOutboxRetry(ctx, ob.ID)
			continue
		}
		_ = r.st.MarkOutboxSent(ctx, ob.ID)
	}
}

// LogSender 默认 sender：只打印，主程序里替换为 Kafka Producer
func LogSender(ctx context.Context, ob *model.MemberOutbox) error {
	log.Printf("OUTBOX SEND type=%s community=%d user=%d payload=%s", ob.EventType, ob.CommunityID, ob.UserID, ob.Payload)
	return nil
}
