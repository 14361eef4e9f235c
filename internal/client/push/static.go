package push

import (
	"context"
	"errors"
	"sync"
)

var ErrNoDeviceToken = errors.New("no device push token configured")

// StaticProvider is a Messaging implementation for runtimes without a push
// SDK, such as the CLI. The device token and permission come from
// configuration; prompting for permission grants it unless it was denied
// outright. It reports itself supported until SetSupported(false); a
// missing token surfaces from Token, not from Supported. Foreground messages
// are injected with Deliver.
type StaticProvider struct {
	*Broker

	mu         sync.Mutex
	supported  bool
	token      string
	permission Permission
	channelErr error
}

func NewStaticProvider(token string, permission Permission) *StaticProvider {
	return &StaticProvider{Broker: NewBroker(), supported: true, token: token, permission: permission}
}

func (p *StaticProvider) Supported() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.supported
}

// SetSupported switches the provider on or off.
func (p *StaticProvider) SetSupported(ok bool) {
	p.mu.Lock()
	p.supported = ok
	p.mu.Unlock()
}

func (p *StaticProvider) RegisterChannel(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channelErr
}

func (p *StaticProvider) Permission(ctx context.Context) Permission {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.permission
}

func (p *StaticProvider) RequestPermission(ctx context.Context) (Permission, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.permission == PermissionDefault {
		p.permission = PermissionGranted
	}
	return p.permission, nil
}

func (p *StaticProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token == "" {
		return "", ErrNoDeviceToken
	}
	return p.token, nil
}

// SetToken replaces the device token, as a provider does when it rotates one.
func (p *StaticProvider) SetToken(token string) {
	p.mu.Lock()
	p.token = token
	p.mu.Unlock()
}

// SetChannelError makes RegisterChannel fail with err (nil clears it).
func (p *StaticProvider) SetChannelError(err error) {
	p.mu.Lock()
	p.channelErr = err
	p.mu.Unlock()
}

// Deliver publishes a foreground message to subscribers.
func (p *StaticProvider) Deliver(msg Message) int {
	return p.Publish(msg)
}
