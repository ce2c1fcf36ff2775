package ios

import (
	"fmt"
	"sync"

	goios "github.com/danielpaulus/go-ios/ios"
	"github.com/danielpaulus/go-ios/ios/forward"
	"github.com/mobile-next/wdactl/utils"
)

// PortForwarder exposes a port of a USB-tethered device on localhost
type PortForwarder struct {
	udid         string
	listener     *forward.ConnListener
	forwardMutex sync.Mutex
	srcPort      int
	dstPort      int
}

func NewPortForwarder(udid string) *PortForwarder {
	return &PortForwarder{
		udid: udid,
	}
}

// Forward listens on local srcPort and relays each connection to dstPort
// on the device through usbmuxd
func (pf *PortForwarder) Forward(srcPort, dstPort int) error {
	pf.forwardMutex.Lock()
	defer pf.forwardMutex.Unlock()

	if pf.listener != nil {
		return fmt.Errorf("port forwarding is already running from %d to %d", pf.srcPort, pf.dstPort)
	}
	if !validPort(srcPort) || !validPort(dstPort) {
		return fmt.Errorf("invalid port pair %d->%d", srcPort, dstPort)
	}

	device, err := goios.GetDevice(pf.udid)
	if err != nil {
		return fmt.Errorf("failed to find device %s: %w", pf.udid, err)
	}

	listener, err := forward.Forward(device, uint16(srcPort), uint16(dstPort))
	if err != nil {
		return fmt.Errorf("failed to forward %d->%d: %w", srcPort, dstPort, err)
	}

	pf.listener = listener
	pf.srcPort = srcPort
	pf.dstPort = dstPort
	utils.Verbose("Port forwarding started from %d to %d on %s", srcPort, dstPort, pf.udid)

	return nil
}

func (pf *PortForwarder) Stop() error {
	pf.forwardMutex.Lock()
	defer pf.forwardMutex.Unlock()

	if pf.listener == nil {
		return fmt.Errorf("no port forwarding running")
	}

	utils.Verbose("Stopping port forwarding %d->%d", pf.srcPort, pf.dstPort)
	err := pf.listener.Close()
	pf.listener = nil
	pf.srcPort = 0
	pf.dstPort = 0

	return err
}

func (pf *PortForwarder) IsRunning() bool {
	pf.forwardMutex.Lock()
	defer pf.forwardMutex.Unlock()

	return pf.listener != nil
}

func (pf *PortForwarder) GetPorts() (srcPort, dstPort int) {
	pf.forwardMutex.Lock()
	defer pf.forwardMutex.Unlock()

	return pf.srcPort, pf.dstPort
}

func validPort(port int) bool {
	return port > 0 && port <= 65535
}
