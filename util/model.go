package util

import (
	"fmt"
)

// HouseModel describes the controllable devices in the order the command
// matcher and the status page present them. The order matters: command
// paths are tested first to last and the first hit wins.
type HouseModel struct {
	Devices []HouseDevice `mapstructure:"devices"`
}

type HouseDevice struct {
	Key       string `mapstructure:"key"`
	Path      string `mapstructure:"path"`
	Label     string `mapstructure:"label"`
	MatrixRow int    `mapstructure:"matrix_row"`
}

// DefaultHouse is the device table of the original board: five room lights
// mapped to rows of the 5x5 matrix plus the notification panel flag.
// MatrixRow -1 means the device has no matrix row.
func DefaultHouse() HouseModel {
	return HouseModel{
		Devices: []HouseDevice{
			{Key: "sala", Path: "/mudar_estado_luz_sala", Label: "Luz da Sala", MatrixRow: 4},
			{Key: "cozinha", Path: "/mudar_estado_luz_cozinha", Label: "Luz da Cozinha", MatrixRow: 3},
			{Key: "quarto", Path: "/mudar_estado_luz_quarto", Label: "Luz do Quarto", MatrixRow: 2},
			{Key: "banheiro", Path: "/mudar_estado_luz_banheiro", Label: "Luz do Banheiro", MatrixRow: 1},
			{Key: "quintal", Path: "/mudar_estado_luz_quintal", Label: "Luz do Quintal", MatrixRow: 0},
			{Key: "display", Path: "/mudar_estado_display", Label: "Televisão", MatrixRow: -1},
		},
	}
}

func (m *HouseModel) BuildModel() error {
	if !Config.IsSet("house") {
		*m = DefaultHouse()
		return nil
	}
	err := Config.UnmarshalKey("house", m)
	if err != nil {
		Logger.Error().Msgf("error unmarshaling house model: %v", err)
		return fmt.Errorf("error")
	}
	if len(m.Devices) == 0 {
		*m = DefaultHouse()
	}
	return nil
}

func (m HouseModel) FindDeviceByPath(path string) string {
	for _, entry := range m.Devices {
		if entry.Path == path {
			return entry.Key
		}
	}
	return ""
}

func (m HouseModel) FindLabelByKey(key string) string {
	for _, entry := range m.Devices {
		if entry.Key == key {
			return entry.Label
		}
	}
	return ""
}

func (m HouseModel) FindMatrixRowByKey(key string) int {
	for _, entry := range m.Devices {
		if entry.Key == key {
			return entry.MatrixRow
		}
	}
	return -1
}

// StateTopic is where the device's on/off state is published for the
// display collaborators and home assistant.
func (m HouseModel) StateTopic(key string) string {
	return fmt.Sprintf("%s/%s/state", Config.GetString("topic_base"), key)
}
