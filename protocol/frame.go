package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// FrameKind tags a binary input frame sent over the API input stream.
type FrameKind uint8

const (
	FrameButton FrameKind = 0x01
	FrameAxis   FrameKind = 0x02
)

// Frame sizes including the kind byte.
const (
	ButtonFrameSize = 3
	AxisFrameSize   = 15
)

// Frame is a decoded input frame. Only the field matching Kind is set.
type Frame struct {
	Kind   FrameKind
	Button ButtonEvent
	Axis   AxisSample
}

// MarshalBinary encodes the event as a 3 byte frame.
//
//	0: kind (0x01)
//	1: button
//	2: phase
func (e ButtonEvent) MarshalBinary() ([]byte, error) {
	return []byte{byte(FrameButton), byte(e.Button), byte(e.Phase)}, nil
}

// UnmarshalBinary decodes a 3 byte button frame.
func (e *ButtonEvent) UnmarshalBinary(data []byte) error {
	if len(data) < ButtonFrameSize {
		return io.ErrUnexpectedEOF
	}
	if FrameKind(data[0]) != FrameButton {
		return fmt.Errorf("not a button frame: kind 0x%02x", data[0])
	}
	ev := ButtonEvent{Button: Button(data[1]), Phase: Phase(data[2])}
	if !ev.Button.Valid() {
		return fmt.Errorf("invalid button %d", data[1])
	}
	if !ev.Phase.Valid() {
		return fmt.Errorf("invalid phase %d", data[2])
	}
	*e = ev
	return nil
}

// MarshalBinary encodes the sample as a 15 byte little endian frame.
//
//	0: kind (0x02)
//	1-4: left trigger (float32)
//	5-8: right trigger (float32)
//	9-12: left stick x (float32)
//	13: dpad x (int8)
//	14: dpad y (int8)
func (s AxisSample) MarshalBinary() ([]byte, error) {
	b := make([]byte, AxisFrameSize)
	b[0] = byte(FrameAxis)
	binary.LittleEndian.PutUint32(b[1:5], math.Float32bits(s.LeftTrigger))
	binary.LittleEndian.PutUint32(b[5:9], math.Float32bits(s.RightTrigger))
	binary.LittleEndian.PutUint32(b[9:13], math.Float32bits(s.LeftStickX))
	b[13] = byte(s.DpadX)
	b[14] = byte(s.DpadY)
	return b, nil
}

// UnmarshalBinary decodes a 15 byte axis frame.
func (s *AxisSample) UnmarshalBinary(data []byte) error {
	if len(data) < AxisFrameSize {
		return io.ErrUnexpectedEOF
	}
	if FrameKind(data[0]) != FrameAxis {
		return fmt.Errorf("not an axis frame: kind 0x%02x", data[0])
	}
	s.LeftTrigger = math.Float32frombits(binary.LittleEndian.Uint32(data[1:5]))
	s.RightTrigger = math.Float32frombits(binary.LittleEndian.Uint32(data[5:9]))
	s.LeftStickX = math.Float32frombits(binary.LittleEndian.Uint32(data[9:13]))
	s.DpadX = int8(data[13])
	s.DpadY = int8(data[14])
	return nil
}

// ReadFrame reads exactly one frame from r. It returns io.EOF only when r is
// exhausted on a frame boundary.
func ReadFrame(r io.Reader) (Frame, error) {
	var buf [AxisFrameSize]byte
	if _, err := io.ReadFull(r, buf[:1]); err != nil {
		return Frame{}, err
	}
	f := Frame{Kind: FrameKind(buf[0])}
	var size int
	switch f.Kind {
	case FrameButton:
		size = ButtonFrameSize
	case FrameAxis:
		size = AxisFrameSize
	default:
		return Frame{}, fmt.Errorf("unknown frame kind 0x%02x", buf[0])
	}
	if _, err := io.ReadFull(r, buf[1:size]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return Frame{}, err
	}
	var err error
	switch f.Kind {
	case FrameButton:
		err = f.Button.UnmarshalBinary(buf[:size])
	case FrameAxis:
		err = f.Axis.UnmarshalBinary(buf[:size])
	}
	if err != nil {
		return Frame{}, err
	}
	return f, nil
}
