package host

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zigbee-aduro/internal/zcl"
)

func TestMessageAttributePresence(t *testing.T) {
	msg := Message{Attributes: map[uint16]any{0x7700: uint8(0)}}

	v, ok := msg.Attribute(0x7700)
	assert.True(t, ok)
	assert.Equal(t, uint8(0), v)

	_, ok = msg.Attribute(0x7701)
	assert.False(t, ok)

	_, ok = Message{}.Attribute(0x7700)
	assert.False(t, ok)
}

func TestRecorderRecordsRequests(t *testing.T) {
	rec := NewRecorder("0x00124b0001020304", "DimmerM3002", "AduroSmart Eria")
	ep, err := rec.Endpoint(1)
	require.NoError(t, err)
	ctx := context.Background()

	opts := Options{ManufacturerCode: 0x122d}
	require.NoError(t, ep.Write(ctx, 0x0000, []WriteRecord{{AttrID: 0x7700, DataType: zcl.TypeUint8, Value: int64(1)}}, opts))
	require.NoError(t, ep.Read(ctx, 0x0000, []uint16{0x7700}, opts))
	require.NoError(t, ep.Bind(ctx, 0x0006))

	reqs := rec.Requests()
	require.Len(t, reqs, 3)
	assert.Equal(t, KindWrite, reqs[0].Kind)
	assert.Equal(t, uint16(0x122d), reqs[0].Options.ManufacturerCode)
	assert.Equal(t, int64(1), reqs[0].Records[0].Value)
	assert.Equal(t, []uint16{0x7700}, reqs[1].Attrs)
	assert.Len(t, rec.RequestsOf(KindBind), 1)

	rec.Reset()
	assert.Empty(t, rec.Requests())
}

func TestRecorderUnknownEndpoint(t *testing.T) {
	rec := NewRecorder("0x01", "BPU3", "AduroSmart")
	_, err := rec.Endpoint(2)
	assert.Error(t, err)
}

func TestRecorderFailRead(t *testing.T) {
	rec := NewRecorder("0x01", "DimmerM3002", "AduroSmart")
	offline := errors.New("device offline")
	rec.FailRead(0x0000, 0x7701, offline)
	ep, err := rec.Endpoint(1)
	require.NoError(t, err)

	err = ep.Read(context.Background(), 0x0000, []uint16{0x7701}, Options{})
	assert.ErrorIs(t, err, offline)
	assert.NoError(t, ep.Read(context.Background(), 0x0000, []uint16{0x7702}, Options{}))
	// failed reads are still recorded as attempted
	assert.Len(t, rec.RequestsOf(KindRead), 2)
}

func TestRecorderConcurrentUse(t *testing.T) {
	rec := NewRecorder("0x01", "DimmerM3002", "AduroSmart")
	ep, err := rec.Endpoint(1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(attr uint16) {
			defer wg.Done()
			_ = ep.Read(context.Background(), 0x0000, []uint16{attr}, Options{})
		}(uint16(0x7700 + i))
	}
	wg.Wait()
	assert.Len(t, rec.Requests(), 16)
}

func TestRecorderCanceledContext(t *testing.T) {
	rec := NewRecorder("0x01", "BPU3", "AduroSmart")
	ep, err := rec.Endpoint(1)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, ep.Command(ctx, 0x0006, 0x01, nil, Options{}), context.Canceled)
	assert.Empty(t, rec.Requests())
}

type sentFrame struct {
	endpoint uint8
	cluster  uint16
	frame    []byte
}

type captureSender struct {
	frames []sentFrame
	binds  []uint16
}

func (s *captureSender) SendZCL(_ context.Context, endpoint uint8, cluster uint16, frame []byte) error {
	s.frames = append(s.frames, sentFrame{endpoint, cluster, frame})
	return nil
}

func (s *captureSender) Bind(_ context.Context, _ uint8, cluster uint16) error {
	s.binds = append(s.binds, cluster)
	return nil
}

func TestFrameEntityManufacturerWrite(t *testing.T) {
	sender := &captureSender{}
	e := NewFrameEntity(sender, 1)

	err := e.Write(context.Background(), 0x0000,
		[]WriteRecord{{AttrID: 0x7803, DataType: zcl.TypeUint16, Value: int64(1500)}},
		Options{ManufacturerCode: 0x122d})
	require.NoError(t, err)
	require.Len(t, sender.frames, 1)

	f := sender.frames[0]
	assert.Equal(t, uint8(1), f.endpoint)
	assert.Equal(t, uint16(0x0000), f.cluster)
	// fc(mfr) + mfr code + seq 1 + write attributes + record
	assert.Equal(t, []byte{0x04, 0x2D, 0x12, 0x01, 0x02, 0x03, 0x78, 0x21, 0xDC, 0x05}, f.frame)
}

func TestFrameEntityReadAndCommand(t *testing.T) {
	sender := &captureSender{}
	e := NewFrameEntity(sender, 1)
	ctx := context.Background()

	require.NoError(t, e.Read(ctx, 0x0000, []uint16{0x7600}, Options{ManufacturerCode: 0x122d}))
	require.NoError(t, e.Command(ctx, 0x0006, 0x02, nil, Options{DisableDefaultResponse: true}))
	require.NoError(t, e.Bind(ctx, 0x0006))

	assert.Equal(t, []byte{0x04, 0x2D, 0x12, 0x01, 0x00, 0x00, 0x76}, sender.frames[0].frame)
	assert.Equal(t, []byte{0x11, 0x02, 0x02}, sender.frames[1].frame)
	assert.Equal(t, []uint16{0x0006}, sender.binds)
	assert.Equal(t, uint8(1), e.ID())
}

func TestFrameEntityWriteEncodeError(t *testing.T) {
	sender := &captureSender{}
	e := NewFrameEntity(sender, 1)
	err := e.Write(context.Background(), 0x0000,
		[]WriteRecord{{AttrID: 0x7800, DataType: zcl.TypeUint8, Value: int64(300)}}, Options{})
	assert.Error(t, err)
	assert.Empty(t, sender.frames)
}

func TestParseFrameReport(t *testing.T) {
	frame := []byte{0x1C, 0x2D, 0x12, 0x05, 0x0A, 0x00, 0x77, 0x20, 0x01, 0x01, 0x77, 0x10, 0x00}
	msg, err := ParseFrame(1, 0x0000, frame)
	require.NoError(t, err)
	assert.Equal(t, AttributeReport, msg.Type)
	assert.Equal(t, uint8(1), msg.Attributes[0x7700])
	assert.Equal(t, false, msg.Attributes[0x7701])
}

func TestParseFrameReadResponseSkipsFailures(t *testing.T) {
	frame := []byte{0x18, 0x03, 0x01,
		0x00, 0x78, 0x00, 0x20, 0x0A, // 0x7800 success uint8 10
		0x01, 0x78, 0x86, // 0x7801 unsupported attribute
	}
	msg, err := ParseFrame(1, 0x0000, frame)
	require.NoError(t, err)
	assert.Equal(t, ReadResponse, msg.Type)
	assert.Equal(t, map[uint16]any{0x7800: uint8(10)}, msg.Attributes)
}

func TestParseFrameClusterCommand(t *testing.T) {
	msg, err := ParseFrame(1, 0x0005, []byte{0x01, 0x09, 0x05, 0x00, 0x00, 0xFD})
	require.NoError(t, err)
	assert.Equal(t, ClusterCommand, msg.Type)
	assert.Equal(t, uint8(0x05), msg.CommandID)
	assert.Equal(t, []byte{0x00, 0x00, 0xFD}, msg.Payload)
}

func TestParseFrameUnsupported(t *testing.T) {
	_, err := ParseFrame(1, 0x0006, []byte{0x18, 0x01, 0x0B, 0x01, 0x00})
	assert.ErrorIs(t, err, ErrUnsupportedFrame)

	_, err = ParseFrame(1, 0x0006, []byte{0x18})
	assert.Error(t, err)
}
