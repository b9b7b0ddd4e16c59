// Package monitor tails the logger's status topics and prints them on the
// serial console. It is a diagnostics tap, attached over a second bus
// connection so it can never slow the measurement cycle down.
package monitor

import (
	"context"

	"tanklog-go/bus"
	"tanklog-go/types"
	"tanklog-go/x/conv"
)

var topicLoggerAll = bus.T("logger", "#")

type Service struct{}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	sub := conn.Subscribe(topicLoggerAll)
	defer conn.Unsubscribe(sub)

	var buf [16]byte
	for {
		select {
		case <-ctx.Done():
			println("Info: monitor service stopping")
			return
		case msg := <-sub.Channel():
			switch p := msg.Payload.(type) {
			case types.CycleStatus:
				line := "Info: cycle " + string(conv.AppendUint(buf[:0], uint64(p.Cycle))) +
					" cause=" + p.Cause +
					" buffered=" + string(conv.AppendInt(buf[:0], int64(p.Buffered)))
				if p.Flushed != 0 {
					line += " flushed=" + string(conv.AppendInt(buf[:0], int64(p.Flushed)))
				}
				if !p.Sampled {
					line += " sample_failed"
				}
				if p.Err != "" {
					line += " err=" + p.Err
				}
				println(line)
			case types.StorageStatus:
				line := "Info: storage " + p.Path +
					" writes=" + string(conv.AppendUint(buf[:0], uint64(p.Writes)))
				if p.Err != "" {
					line += " err=" + p.Err
				}
				println(line)
			default:
				println("Info: monitor:", topicString(msg.Topic))
			}
		}
	}
}

func topicString(t bus.Topic) string {
	out := ""
	for i, tok := range t {
		if i > 0 {
			out += "/"
		}
		out += tok
	}
	return out
}

// Start attaches the monitor to the bus.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	go s.serviceLoop(ctx, conn)
}
