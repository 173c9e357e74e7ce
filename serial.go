package pd0

import (
	"context"
	"io"
	"log"

	"go.bug.st/serial"
)

// DvlPortInterface abstracts the serial connection to the instrument so
// that tests and replay tooling can substitute a canned byte stream.
type DvlPortInterface interface {
	Ensembles() <-chan []byte
	Monitor(ctx context.Context) error
	SendCommand(command string)
	Close() error
}

// MockDvlPort replays a canned byte stream as if it arrived over the
// serial line.
type MockDvlPort struct {
	Data          io.Reader
	EnsemblesChan chan []byte
}

func (m *MockDvlPort) Ensembles() <-chan []byte {
	return m.EnsemblesChan
}

func (m *MockDvlPort) SendCommand(command string) {
	log.Printf("got command %q", command)
}

func (m *MockDvlPort) Monitor(ctx context.Context) error {
	scanner := NewEnsembleScanner(m.Data)

	for {
		_, buffer, err := scanner.Next()
		if err != nil {
			break
		}
		m.EnsemblesChan <- buffer
	}

	<-ctx.Done()
	return nil
}

func (m *MockDvlPort) Close() error {
	return nil
}

// DvlPort is a serial connection to a Pathfinder DVL streaming PD0
// ensembles.
type DvlPort struct {
	serial.Port
	ensembles chan []byte
	commands  chan string
}

// NewDvlPort opens the named serial port with the instruments default
// framing of 8 data bits, no parity, one stop bit.
func NewDvlPort(portName string, baudRate int) (*DvlPort, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, err
	}

	ensembles := make(chan []byte)
	commands := make(chan string)

	return &DvlPort{port, ensembles, commands}, nil
}

// Ensembles returns a channel for receiving raw ensemble buffers framed
// from the serial stream, ready for DecodeEnsemble.
func (p *DvlPort) Ensembles() <-chan []byte {
	return p.ensembles
}

// Close closes the serial port.
func (p *DvlPort) Close() error {
	if err := p.Port.Close(); err != nil {
		return err
	}
	return nil
}

// SendCommand queues an instrument command (e.g. a CS start-pinging
// request) for the monitor loop to write.
func (p *DvlPort) SendCommand(command string) {
	p.commands <- command
}

func (p *DvlPort) writeCommand(command string) error {
	_, err := p.Port.Write([]byte(command))
	if err != nil {
		log.Printf("Error writing to port: %v", err)
		return err
	}
	return nil
}

// Monitor frames ensembles from the serial port and sends the raw
// buffers to the ensembles channel, interleaving any queued instrument
// commands.
func (p *DvlPort) Monitor(ctx context.Context) error {
	defer p.Close()
	scanner := NewEnsembleScanner(p.Port)

	// combination of for & select is the concurrent "while true" loop
	// that awaits for many possible events but executes only one at a
	// time.
	for {
		select {
		// check if the context is done
		// and exit the loop if it is
		case <-ctx.Done():
			return nil
		// check if there is a command to send
		// and send it to the serial port
		case command := <-p.commands:
			if err := p.writeCommand(command); err != nil {
				log.Printf("Error writing command to port: %v", err)
			}
		default:
			_, buffer, err := scanner.Next()
			if err != nil {
				return err
			}
			p.ensembles <- buffer
		}
	}
}
