package msgs

// Object ids of the predefined records.
const (
	AnnounceID int16 = 2
	StatusID   int16 = 6
)

// Quality grades a radio or link signal.
type Quality uint8

// Quality grades.
const (
	QualityNone Quality = iota
	QualityLow
	QualityMedium
	QualityHigh
)

// LinkState describes the state of one transport leg.
type LinkState uint8

// Link states.
const (
	LinkDisconnected LinkState = 0
	LinkConnected    LinkState = 1
	LinkError        LinkState = 10
)

// Announce identifies a device to its peer after connecting.
type Announce struct {
	DeviceID string
	Name     string
}

// ObjectID implements codec.Object.
func (Announce) ObjectID() int16 { return AnnounceID }

// Status reports the health of every transport leg of a device.
type Status struct {
	LastReceivedMessageAgeMs uint64
	BleRssi                  float32
	RadioRssi                float32
	EspNowRssi               float32
	BleQuality               Quality
	RadioQuality             Quality
	EspNowQuality            Quality
	BleState                 LinkState
	EspNowState              LinkState
	RadioState               LinkState
}

// ObjectID implements codec.Object.
func (Status) ObjectID() int16 { return StatusID }
