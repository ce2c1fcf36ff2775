package wda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mobile-next/wdactl/types"
)

// Actions is the device action surface driven by the upper control layer
type Actions interface {
	Serial() string
	Connect(ctx context.Context) error
	RemoveSession(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	SessionID() string

	Tap(params TapParams)
	TouchUp(ctx context.Context) error
	DoubleClick(ctx context.Context) error
	Swipe(ctx context.Context, params SwipeParams) error
	Rotation(ctx context.Context, orientation Orientation) error
	GetOrientation(ctx context.Context) (Orientation, error)
	TypeKey(ctx context.Context, params KeysParams) error
	PressKey(ctx context.Context, key string) error
	PressButton(ctx context.Context, name string) error
	PressPower(ctx context.Context) error
	AppActivate(ctx context.Context, bundleID string) error
	Home(ctx context.Context) error
	OpenURL(ctx context.Context, url string) error
	TapDeviceTreeElement(ctx context.Context, label string) error

	Size(ctx context.Context) (Size, error)
	Screenshot(ctx context.Context) ([]byte, error)
	GetTreeElements(ctx context.Context) (json.RawMessage, error)
	GetSourceElements(ctx context.Context) ([]types.ScreenElement, error)
	BatteryInfo(ctx context.Context) (*types.BatteryInfo, error)
	ActiveApp(ctx context.Context) (*ActiveAppInfo, error)
	SessionInfo(ctx context.Context) (map[string]interface{}, error)
}

var (
	_ Actions = (*WdaClient)(nil)
	_ Actions = (*SizedClient)(nil)
)

// SizedClient makes sure the device size is known before TouchUp,
// DoubleClick and Swipe run. Everything else passes straight through.
type SizedClient struct {
	*WdaClient
}

func NewSizedClient(client *WdaClient) *SizedClient {
	return &SizedClient{WdaClient: client}
}

func (s *SizedClient) TouchUp(ctx context.Context) error {
	return s.withSize(ctx, s.WdaClient.TouchUp)
}

func (s *SizedClient) DoubleClick(ctx context.Context) error {
	return s.withSize(ctx, s.WdaClient.DoubleClick)
}

func (s *SizedClient) Swipe(ctx context.Context, params SwipeParams) error {
	return s.withSize(ctx, func(ctx context.Context) error {
		return s.WdaClient.Swipe(ctx, params)
	})
}

// withSize fetches the size on first use. If that fails the gesture is
// dropped, a reconnect is attempted, and ErrGestureDropped is returned once
// the reconnect succeeds. A reconnect landing between the size check and
// the gesture clears the size again, so that case gets one more fetch.
func (s *SizedClient) withSize(ctx context.Context, op func(context.Context) error) error {
	if _, ok := s.DeviceSize(); !ok {
		if err := s.ensureSize(ctx); err != nil {
			return err
		}
	}

	err := op(ctx)
	if !errors.Is(err, ErrDeviceSizeUnknown) {
		return err
	}

	if err := s.ensureSize(ctx); err != nil {
		return err
	}
	return op(ctx)
}

func (s *SizedClient) ensureSize(ctx context.Context) error {
	_, sizeErr := s.Size(ctx)
	if sizeErr == nil {
		return nil
	}

	s.log.Warnf("window size unavailable, reconnecting: %v", sizeErr)
	if err := s.Connect(ctx); err != nil {
		return err
	}
	return fmt.Errorf("%w: %v", ErrGestureDropped, sizeErr)
}
