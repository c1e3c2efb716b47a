package msgs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/StefanFabian/crosstalk/pkg/codec"
)

func TestObjectIDsStable(t *testing.T) {
	// Wire compatibility: these ids are baked into deployed firmware.
	require.Equal(t, int16(2), Announce{}.ObjectID())
	require.Equal(t, int16(6), Status{}.ObjectID())
}

func TestStatusRoundTrip(t *testing.T) {
	status := Status{
		LastReceivedMessageAgeMs: 42,
		BleRssi:                  -51.5,
		RadioRssi:                -90,
		EspNowRssi:               -60.25,
		BleQuality:               QualityMedium,
		RadioQuality:             QualityNone,
		EspNowQuality:            QualityHigh,
		BleState:                 LinkConnected,
		EspNowState:              LinkDisconnected,
		RadioState:               LinkError,
	}
	size := codec.SizeOf(status)
	// 8 + 3*4 + 6 single-byte fields.
	require.Equal(t, 26, size)
	buf := make([]byte, size)
	require.Equal(t, size, codec.Serialize(buf, status))

	var out Status
	require.Equal(t, size, codec.Deserialize(buf, &out))
	require.Equal(t, status, out)
}

func TestAnnounceRoundTrip(t *testing.T) {
	announce := Announce{DeviceID: "550e8400", Name: "lab bench"}
	size := codec.SizeOf(announce)
	buf := make([]byte, size)
	require.Equal(t, size, codec.Serialize(buf, announce))

	var out Announce
	require.Equal(t, size, codec.Deserialize(buf, &out))
	require.Equal(t, announce, out)
}
