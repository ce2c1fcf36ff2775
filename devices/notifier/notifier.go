package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mobile-next/wdactl/utils"
	"github.com/sirupsen/logrus"
)

const (
	TemporarilyUnavailableMessage = "TemporarilyUnavailableMessage"

	sendTimeout = 5 * time.Second
)

// Envelope is the message pushed to a device group
type Envelope struct {
	ID     string    `json:"id"`
	Type   string    `json:"type"`
	Serial string    `json:"serial"`
	SentAt time.Time `json:"sentAt"`
}

// Group resolves the channel of the group currently owning the device
type Group interface {
	Get(ctx context.Context) (string, error)
}

// Pusher delivers an envelope to a channel
type Pusher interface {
	Send(ctx context.Context, channel string, envelope Envelope) error
}

// StaticGroup is a group that never changes
type StaticGroup string

func (g StaticGroup) Get(context.Context) (string, error) {
	if g == "" {
		return "", fmt.Errorf("device is not in a group")
	}
	return string(g), nil
}

// GroupNotifier pushes TemporarilyUnavailableMessage to the device group.
// Sends run in the background; failures are logged and never returned.
type GroupNotifier struct {
	group  Group
	pusher Pusher
	log    *logrus.Entry
	wg     sync.WaitGroup
}

func NewGroupNotifier(group Group, pusher Pusher) *GroupNotifier {
	return &GroupNotifier{
		group:  group,
		pusher: pusher,
		log:    utils.Logger("device:plugins:notifier"),
	}
}

// SetDeviceTemporaryUnavailable returns at once; the push happens on its
// own goroutine with its own timeout
func (n *GroupNotifier) SetDeviceTemporaryUnavailable(ctx context.Context, serial string) {
	// the caller's deadline may already be spent on the failed request
	ctx = context.WithoutCancel(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.send(ctx, serial)
	}()
}

// Wait blocks until every pending send has finished
func (n *GroupNotifier) Wait() {
	n.wg.Wait()
}

func (n *GroupNotifier) send(ctx context.Context, serial string) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	channel, err := n.group.Get(ctx)
	if err != nil {
		n.log.Errorf("cannot set device %s temporary unavailable: %v", serial, err)
		return
	}

	envelope := Envelope{
		ID:     uuid.NewString(),
		Type:   TemporarilyUnavailableMessage,
		Serial: serial,
		SentAt: time.Now().UTC(),
	}

	if err := n.pusher.Send(ctx, channel, envelope); err != nil {
		n.log.Errorf("cannot set device %s temporary unavailable: %v", serial, err)
		return
	}

	n.log.WithField("id", envelope.ID).Infof("device %s marked temporarily unavailable in %s", serial, channel)
}

// LogNotifier only logs; used when no hub is configured
type LogNotifier struct{}

func (LogNotifier) SetDeviceTemporaryUnavailable(_ context.Context, serial string) {
	utils.Logger("device:plugins:notifier").Warnf("device %s is temporarily unavailable (no hub configured)", serial)
}
