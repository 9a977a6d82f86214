package display

import (
	"github.com/elijahnyp/casa_controller/state"
	"github.com/elijahnyp/casa_controller/util"
)

const (
	MatrixSide   = 5
	MatrixPixels = MatrixSide * MatrixSide

	rowOn  = 0xFFFFFF00
	rowOff = 0x00000000
)

// Frame is one full refresh of the led matrix, row-major from pixel 0.
type Frame [MatrixPixels]uint32

// FrameWriter is the pixel-level matrix driver. It owns the wire format and
// timing below the frame.
type FrameWriter interface {
	WriteFrame(Frame) error
}

// Matrix turns device snapshots into matrix frames: each room light owns
// one row of the 5x5 grid.
type Matrix struct {
	house  util.HouseModel
	writer FrameWriter
}

func NewMatrix(house util.HouseModel, writer FrameWriter) *Matrix {
	return &Matrix{house: house, writer: writer}
}

// BuildFrame renders the snapshot. Rows not claimed by any device stay off.
func (m *Matrix) BuildFrame(snap state.Snapshot) Frame {
	var rowColor [MatrixSide]uint32
	for _, dev := range m.house.Devices {
		if dev.MatrixRow < 0 || dev.MatrixRow >= MatrixSide {
			continue
		}
		if snap.On(state.Device(dev.Key)) {
			rowColor[dev.MatrixRow] = rowOn
		}
	}

	var f Frame
	for i := 0; i < MatrixPixels; i++ {
		f[i] = rowColor[i/MatrixSide]
	}
	return f
}

// Refresh pushes the current snapshot to the driver.
func (m *Matrix) Refresh(snap state.Snapshot) {
	if err := m.writer.WriteFrame(m.BuildFrame(snap)); err != nil {
		util.Logger.Warn().Msgf("matrix refresh failed: %v", err)
	}
}
