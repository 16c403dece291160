//go:build !no_mqtt

package mqtt

import (
	"context"
	"errors"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type fakeToken struct {
	err error
}

func (t fakeToken) Wait() bool                     { return true }
func (t fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t fakeToken) Error() error                   { return t.err }

func (t fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// mockClient implements the publishing side of a paho client.
type mockClient struct {
	pahomqtt.Client
	mock.Mock
}

func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token {
	return fakeToken{err: m.Called(topic, qos, retained, payload).Error(0)}
}

func (m *mockClient) Disconnect(quiesce uint) { m.Called(quiesce) }

func TestPublishDiscovery(t *testing.T) {
	client := &mockClient{}
	client.On("Publish", "ha/switch/zigbee_01/switch/config", byte(1), true, []byte(`{}`)).Return(nil)
	client.On("Publish", "ha/sensor/zigbee_01/linkquality/config", byte(1), true, []byte(nil)).Return(errors.New("broker gone"))
	client.On("Publish", "ha/sensor/zigbee_01/power/config", byte(1), true, []byte(`{}`)).Return(nil)

	p := NewPublisher(client, Config{DiscoveryPrefix: "ha"}, nil)
	err := p.PublishDiscovery(context.Background(), []Message{
		{Topic: "ha/switch/zigbee_01/switch/config", Payload: []byte(`{}`)},
		{Topic: "ha/sensor/zigbee_01/linkquality/config"},
		{Topic: "ha/sensor/zigbee_01/power/config", Payload: []byte(`{}`)},
	})

	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 1)
	assert.ErrorContains(t, err, "broker gone")
	client.AssertNumberOfCalls(t, "Publish", 3)
}

func TestPublishDiscoveryCanceled(t *testing.T) {
	client := &mockClient{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewPublisher(client, Config{}, nil).PublishDiscovery(ctx, []Message{{Topic: "t"}})
	assert.ErrorIs(t, err, context.Canceled)
	client.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPublishState(t *testing.T) {
	client := &mockClient{}
	client.On("Publish", "zigbee2mqtt/kitchen", byte(1), false, []byte(`{"state":"ON"}`)).Return(nil)
	client.On("Disconnect", uint(250)).Return()

	p := NewPublisher(client, Config{}, nil)
	require.NoError(t, p.PublishState(Device{IEEEAddress: "01", FriendlyName: "Kitchen"}, map[string]any{"state": "ON"}))
	p.Close()
	client.AssertExpectations(t)
}
