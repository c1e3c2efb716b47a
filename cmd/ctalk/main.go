package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"
	"github.com/google/uuid"

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

type console struct {
	talker   *comm.CrossTalker
	port     *serial.Port
	deviceID string
}

const consoleKey = "$console"

func consoleFrom(c *ishell.Context) *console {
	return c.Get(consoleKey).(*console)
}

var commands = []*ishell.Cmd{
	{
		Name:    "announce",
		Aliases: []string{"a"},
		Help:    "NAME",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("NAME required"))
				return
			}
			s := consoleFrom(c)
			msg := msgs.Announce{DeviceID: s.deviceID, Name: strings.Join(c.Args, " ")}
			if res := s.talker.SendObject(msg); res != comm.WriteSuccess {
				c.Err(fmt.Errorf("send failed: %v", res))
			}
		},
	},
	{
		Name:    "text",
		Aliases: []string{"t"},
		Help:    "MESSAGE",
		Func: func(c *ishell.Context) {
			s := consoleFrom(c)
			line := strings.Join(c.Args, " ") + "\n"
			if !s.port.Write([]byte(line)) {
				c.Err(fmt.Errorf("write failed"))
			}
		},
	},
	{
		Name:    "recv",
		Aliases: []string{"r"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := consoleFrom(c)
			s.talker.ProcessSerialData(true)
			for s.talker.HasObject() {
				if !s.printObject(c) {
					break
				}
			}
			if n := s.talker.Available(); n > 0 {
				buf := make([]byte, n)
				s.talker.Read(buf)
				c.Printf("text: %s\n", string(buf))
			}
		},
	},
	{
		Name:    "skip",
		Aliases: []string{"s"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := consoleFrom(c)
			if s.talker.HasObject() {
				c.Printf("skip object: %v\n", s.talker.SkipObject())
				return
			}
			c.Printf("skipped %d bytes\n", s.talker.Skip())
		},
	},
}

// printObject decodes the pending frame and prints it. It returns
// false when the frame is still incomplete.
func (s *console) printObject(c *ishell.Context) bool {
	id := s.talker.ObjectID()
	switch id {
	case msgs.StatusID:
		var status msgs.Status
		res := s.talker.ReadObject(&status)
		if res == comm.NotEnoughData {
			return false
		}
		if res != comm.ReadSuccess {
			c.Printf("status: %v\n", res)
			return true
		}
		c.Printf("status: %+v\n", status)
	case msgs.AnnounceID:
		var announce msgs.Announce
		res := s.talker.ReadObject(&announce)
		if res == comm.NotEnoughData {
			return false
		}
		if res != comm.ReadSuccess {
			c.Printf("announce: %v\n", res)
			return true
		}
		c.Printf("announce: %q (%s)\n", announce.Name, announce.DeviceID)
	default:
		res := s.talker.SkipObject()
		if res == comm.NotEnoughData {
			return false
		}
		c.Printf("skipped object id=%d: %v\n", id, res)
	}
	return true
}

func main() {
	flag.Parse()

	port, err := serial.Open(device, baud)
	if err != nil {
		log.Fatalln(err)
	}
	defer port.Close()
	glog.Infof("connected %s @ %d", device, baud)

	s := &console{
		talker:   comm.New(port),
		port:     port,
		deviceID: uuid.New().String(),
	}
	shell := ishell.New()
	shell.Set(consoleKey, s)
	shell.SetPrompt(fmt.Sprintf("[%s] > ", device))
	for _, cmd := range commands {
		shell.AddCmd(cmd)
	}
	if args := flag.Args(); len(args) > 0 {
		if err := shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	shell.Run()
}
