package serial

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// baudRates maps configured speeds to their termios constants.
var baudRates = map[int]uint32{
	50:      unix.B50,
	75:      unix.B75,
	110:     unix.B110,
	134:     unix.B134,
	150:     unix.B150,
	200:     unix.B200,
	300:     unix.B300,
	600:     unix.B600,
	1200:    unix.B1200,
	1800:    unix.B1800,
	2400:    unix.B2400,
	4800:    unix.B4800,
	9600:    unix.B9600,
	19200:   unix.B19200,
	38400:   unix.B38400,
	57600:   unix.B57600,
	115200:  unix.B115200,
	230400:  unix.B230400,
	460800:  unix.B460800,
	500000:  unix.B500000,
	576000:  unix.B576000,
	921600:  unix.B921600,
	1000000: unix.B1000000,
	1152000: unix.B1152000,
	1500000: unix.B1500000,
	2000000: unix.B2000000,
}

// dataBitSizes maps word lengths to their CSIZE constants.
var dataBitSizes = map[int]uint32{
	5: unix.CS5,
	6: unix.CS6,
	7: unix.CS7,
	8: unix.CS8,
}

func applyBaudRate(t *unix.Termios, baud int) error {
	b, ok := baudRates[baud]
	if !ok {
		return fmt.Errorf("unsupported baud rate %d", baud)
	}
	t.Cflag &^= unix.CBAUD
	t.Cflag |= b
	t.Ispeed = b
	t.Ospeed = b
	return nil
}

func applyDataBits(t *unix.Termios, bits int) error {
	cs, ok := dataBitSizes[bits]
	if !ok {
		return fmt.Errorf("unsupported data bits %d", bits)
	}
	t.Cflag &^= unix.CSIZE
	t.Cflag |= cs
	return nil
}

// applyParity sets the parity bits. Mark and space parity use the Linux
// CMSPAR extension ("stick" parity).
func applyParity(t *unix.Termios, p Parity) error {
	switch p {
	case ParityNone:
		t.Cflag &^= unix.PARENB | unix.PARODD | unix.CMSPAR
		t.Iflag &^= unix.INPCK
	case ParityOdd:
		t.Cflag |= unix.PARENB | unix.PARODD
		t.Cflag &^= unix.CMSPAR
		t.Iflag |= unix.INPCK
	case ParityEven:
		t.Cflag |= unix.PARENB
		t.Cflag &^= unix.PARODD | unix.CMSPAR
		t.Iflag |= unix.INPCK
	case ParityMark:
		t.Cflag |= unix.PARENB | unix.PARODD | unix.CMSPAR
		t.Iflag |= unix.INPCK
	case ParitySpace:
		t.Cflag |= unix.PARENB | unix.CMSPAR
		t.Cflag &^= unix.PARODD
		t.Iflag |= unix.INPCK
	default:
		return fmt.Errorf("unsupported parity %s", p)
	}
	return nil
}

func applyStopBits(t *unix.Termios, s StopBits) error {
	switch s {
	case StopBitsOne:
		t.Cflag &^= unix.CSTOPB
	case StopBitsTwo:
		t.Cflag |= unix.CSTOPB
	case StopBitsOnePointFive:
		return errors.New("1.5 stop bits are not supported on Linux")
	default:
		return fmt.Errorf("unsupported stop bits %s", s)
	}
	return nil
}
