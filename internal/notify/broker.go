package notify

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wineshop/internal/transport/ws"
)

// 用户端与管理端各跑一个进程，实时消息跨进程走 redis 发布订阅。
// 每用户一个频道，管理端共用一个广播频道
const (
	userChannelPrefix = "notify:user:"
	adminChannel      = "notify:admins"
)

type Broker struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewBroker(rdb *redis.Client, log *zap.Logger) *Broker {
	return &Broker{rdb: rdb, log: log}
}

func (b *Broker) PublishToUser(ctx context.Context, userID uint64, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, userChannelPrefix+strconv.FormatUint(userID, 10), data).Err()
}

func (b *Broker) PublishToAdmins(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, adminChannel, data).Err()
}

// RunUserFanout 订阅全部用户频道，把消息投给本进程在线的该用户连接。
// 阻塞直到 ctx 结束，应在独立 goroutine 里跑
func (b *Broker) RunUserFanout(ctx context.Context, hub *ws.Hub) {
	sub := b.rdb.PSubscribe(ctx, userChannelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			idStr := strings.TrimPrefix(msg.Channel, userChannelPrefix)
			userID, err := strconv.ParseUint(idStr, 10, 64)
			if err != nil {
				b.log.Warn("bad notify channel", zap.String("channel", msg.Channel))
				continue
			}
			hub.SendRawToUser(userID, []byte(msg.Payload))
		}
	}
}

// RunAdminFanout 订阅管理端广播频道，投给本进程在线客服
func (b *Broker) RunAdminFanout(ctx context.Context, hub *ws.Hub) {
	sub := b.rdb.Subscribe(ctx, adminChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			hub.SendRawToAdmins([]byte(msg.Payload))
		}
	}
}
