package serial

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// Parity configures parity bit generation and checking.
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
	ParityMark
	ParitySpace
)

// String returns the config-file spelling of the parity mode.
func (p Parity) String() string {
	switch p {
	case ParityNone:
		return "none"
	case ParityOdd:
		return "odd"
	case ParityEven:
		return "even"
	case ParityMark:
		return "mark"
	case ParitySpace:
		return "space"
	default:
		return fmt.Sprintf("parity(%d)", int(p))
	}
}

// StopBits configures the number of stop bits sent after each byte.
type StopBits int

const (
	StopBitsOne StopBits = iota
	StopBitsOnePointFive
	StopBitsTwo
)

// String returns the config-file spelling of the stop bits mode.
func (s StopBits) String() string {
	switch s {
	case StopBitsOne:
		return "1"
	case StopBitsOnePointFive:
		return "1.5"
	case StopBitsTwo:
		return "2"
	default:
		return fmt.Sprintf("stopbits(%d)", int(s))
	}
}

// Config holds configuration parameters for opening a serial port.
// A zero BaudRate defaults to 9600 and zero DataBits to 8, the classic
// 9600-8N1 line settings.
type Config struct {
	Device              string
	BaudRate            int
	DataBits            int // 5 to 8
	Parity              Parity
	StopBits            StopBits
	ReadTimeout         time.Duration // 0 blocks until data or Close
	SoftwareFlowControl bool          // XON/XOFF
	RTSCTS              bool          // hardware flow control
}

// ErrClosed is returned by Read and Write after Close.
var ErrClosed = errors.New("serial: port closed")

// ErrTimeout is returned by Read when ReadTimeout elapses with no data.
var ErrTimeout = errors.New("serial: read timeout")

// Port provides low-latency, killable, byte-oriented access to a Linux
// serial port. A Read blocked in poll is unblocked by Close from any
// goroutine through a self-pipe.
type Port struct {
	fd        int
	file      *os.File
	done      chan struct{}
	closeOnce sync.Once
	config    Config
	pipeR     int // self-pipe read fd
	pipeW     int // self-pipe write fd
}

// Open opens a serial port using the provided Config and returns a Port.
// The port is configured for raw, low-latency, non-buffered operation.
func Open(cfg Config) (*Port, error) {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = 9600
	}
	if cfg.DataBits == 0 {
		cfg.DataBits = 8
	}

	fd, err := syscall.Open(cfg.Device, syscall.O_RDWR|syscall.O_NOCTTY|syscall.O_NONBLOCK, 0666)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Device, err)
	}
	ok := false
	defer func() {
		// prevent handle leak on failed configuration
		if !ok {
			syscall.Close(fd)
		}
	}()

	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return nil, fmt.Errorf("get termios: %w", err)
	}

	// Raw mode
	termios.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON | unix.IXOFF | unix.IXANY
	termios.Oflag &^= unix.OPOST
	termios.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	termios.Cflag |= unix.CREAD | unix.CLOCAL

	if err := applyBaudRate(termios, cfg.BaudRate); err != nil {
		return nil, err
	}
	if err := applyDataBits(termios, cfg.DataBits); err != nil {
		return nil, err
	}
	if err := applyParity(termios, cfg.Parity); err != nil {
		return nil, err
	}
	if err := applyStopBits(termios, cfg.StopBits); err != nil {
		return nil, err
	}

	if cfg.SoftwareFlowControl {
		termios.Iflag |= unix.IXON | unix.IXOFF
	}
	if cfg.RTSCTS {
		termios.Cflag |= unix.CRTSCTS
	} else {
		termios.Cflag &^= unix.CRTSCTS
	}

	// Set VMIN=1, VTIME=0 for immediate reads; timeouts are handled in poll
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		return nil, fmt.Errorf("set termios: %w", err)
	}

	// Turn back into blocking mode now that config is done
	syscall.SetNonblock(fd, false)

	// Create self-pipe for killability
	pipeFds := make([]int, 2)
	if err := unix.Pipe(pipeFds); err != nil {
		return nil, fmt.Errorf("pipe: %w", err)
	}

	ok = true
	return &Port{
		fd:     fd,
		file:   os.NewFile(uintptr(fd), cfg.Device),
		done:   make(chan struct{}),
		config: cfg,
		pipeR:  pipeFds[0],
		pipeW:  pipeFds[1],
	}, nil
}

// Device returns the device path the port was opened with.
func (p *Port) Device() string {
	return p.config.Device
}

// Read fills buf with whatever bytes are available, blocking until data
// arrives, the configured ReadTimeout elapses (ErrTimeout), or the port is
// closed (ErrClosed).
func (p *Port) Read(buf []byte) (int, error) {
	for {
		timeout := -1
		if p.config.ReadTimeout > 0 {
			timeout = int(p.config.ReadTimeout.Milliseconds())
			if timeout == 0 {
				timeout = 1
			}
		}
		// Use poll to wait for data or kill signal
		pfd := []unix.PollFd{
			{Fd: int32(p.fd), Events: unix.POLLIN},
			{Fd: int32(p.pipeR), Events: unix.POLLIN},
		}
		n, err := unix.Poll(pfd, timeout)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return 0, fmt.Errorf("poll: %w", err)
		}
		// Check killability
		select {
		case <-p.done:
			return 0, ErrClosed
		default:
		}
		if pfd[1].Revents&unix.POLLIN != 0 {
			// Drain pipe
			var b [1]byte
			unix.Read(p.pipeR, b[:])
			return 0, ErrClosed
		}
		if n == 0 {
			return 0, ErrTimeout
		}
		// POLLHUP and POLLERR fall through to the read so the peer hangup
		// surfaces as a read error instead of a spin
		if pfd[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 {
			return p.file.Read(buf)
		}
	}
}

// ReadLoop continuously reads raw chunks from the port and invokes onData
// for each one. The chunk aliases an internal buffer and is only valid until
// the next read; copy it to keep it. Timeouts keep the loop alive, Close
// makes it return quietly, and any other error is reported through onError
// before the loop exits.
func (p *Port) ReadLoop(onData func([]byte), onError func(error)) {
	buf := make([]byte, 4096)
	for {
		n, err := p.Read(buf)
		switch {
		case errors.Is(err, ErrTimeout):
			continue
		case errors.Is(err, ErrClosed):
			return
		case err != nil:
			onError(err)
			return
		}
		if n > 0 {
			onData(buf[:n])
		}
	}
}

// Write writes b to the serial port.
func (p *Port) Write(b []byte) (int, error) {
	select {
	case <-p.done:
		return 0, ErrClosed
	default:
	}
	return p.file.Write(b)
}

// Close closes the serial port and unblocks any Read or ReadLoop calls.
// Safe to call multiple times; subsequent calls are no-ops.
func (p *Port) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.done)
		// Wake up poll using self-pipe
		if p.pipeW > 0 {
			unix.Write(p.pipeW, []byte{1})
		}
		if p.file != nil {
			err = p.file.Close()
		}
		if p.pipeR > 0 {
			unix.Close(p.pipeR)
		}
		if p.pipeW > 0 {
			unix.Close(p.pipeW)
		}
	})
	return err
}
