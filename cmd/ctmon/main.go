package main

import (
	"bytes"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/StefanFabian/crosstalk/pkg/comm"
	"github.com/StefanFabian/crosstalk/pkg/msgs"
	"github.com/StefanFabian/crosstalk/pkg/serial"
)

var (
	device = "/dev/ttyACM0"
	baud   = 115200
)

func init() {
	if val := os.Getenv("CROSSTALK_SERIAL"); val != "" {
		device = val
	}
	flag.StringVar(&device, "serial", device, "Serial device.")
	flag.IntVar(&baud, "baud", baud, "Baud rate.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	port, err := serial.Open(device, baud)
	if err != nil {
		log.Fatalln(err)
	}
	defer port.Close()
	talker := comm.New(port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(2 * time.Millisecond)
	defer ticker.Stop()

	var text []byte
	buf := make([]byte, 256)
	for {
		select {
		case <-sigCh:
			log.Println("stop requested")
			return
		case <-ticker.C:
		}
		talker.ProcessSerialData(true)
		for talker.HasObject() {
			if !dumpObject(talker) {
				break
			}
		}
		for {
			n := talker.Read(buf)
			if n == 0 {
				break
			}
			text = flushLines(append(text, buf[:n]...))
		}
	}
}

// dumpObject reads and prints the pending frame. It returns false when
// the frame tail has not arrived yet.
func dumpObject(talker *comm.CrossTalker) bool {
	id := talker.ObjectID()
	switch id {
	case msgs.StatusID:
		var status msgs.Status
		res := talker.ReadObject(&status)
		if res == comm.NotEnoughData {
			return false
		}
		if res != comm.ReadSuccess {
			log.Printf("status: %v", res)
			return true
		}
		log.Printf("status: age=%dms ble=%.0fdBm(q%d,s%d) radio=%.0fdBm(q%d,s%d) espnow=%.0fdBm(q%d,s%d)",
			status.LastReceivedMessageAgeMs,
			status.BleRssi, status.BleQuality, status.BleState,
			status.RadioRssi, status.RadioQuality, status.RadioState,
			status.EspNowRssi, status.EspNowQuality, status.EspNowState)
	case msgs.AnnounceID:
		var announce msgs.Announce
		res := talker.ReadObject(&announce)
		if res == comm.NotEnoughData {
			return false
		}
		if res != comm.ReadSuccess {
			log.Printf("announce: %v", res)
			return true
		}
		log.Printf("announce: %q (%s)", announce.Name, announce.DeviceID)
	default:
		res := talker.SkipObject()
		if res == comm.NotEnoughData {
			return false
		}
		log.Printf("skipped object id=%d: %v", id, res)
	}
	return true
}

// flushLines prints complete text lines and returns the unterminated
// remainder.
func flushLines(text []byte) []byte {
	for {
		i := bytes.IndexByte(text, '\n')
		if i < 0 {
			return text
		}
		log.Printf("text: %s", strings.TrimRight(string(text[:i]), "\r"))
		text = text[i+1:]
	}
}
