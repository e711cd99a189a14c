// Package serial provides a minimal, Linux-only serial port layer designed
// for unbuffered byte-level communication with embedded devices.
//
// The package is built for monitoring use cases where every received byte
// matters and must surface immediately, without line framing or buffering in
// between. Framing and rendering are left to the caller.
//
// Features:
//   - Raw syscall-based serial I/O on Linux, no buffering delays
//   - Full line settings: baud rate, data bits, parity (including mark and
//     space), stop bits, XON/XOFF and RTS/CTS flow control
//   - Safe concurrent Close with killability via a self-pipe
//   - Poll-based read timeouts
//   - PTY-based tests for reliability
//
// This package does **not** support Windows.
//
// Example usage:
//
//	cfg := serial.Config{
//	    Device:   "/dev/ttyUSB0",
//	    BaudRate: 115200,
//	}
//	port, err := serial.Open(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	// Start reading chunks in a goroutine
//	go port.ReadLoop(
//	    func(chunk []byte) {
//	        fmt.Printf("received %d bytes\n", len(chunk))
//	    },
//	    func(err error) {
//	        log.Println("read error:", err)
//	    },
//	)
//
//	// Write a command
//	if _, err := port.Write([]byte("C,START\r\n")); err != nil {
//	    log.Println("write failed:", err)
//	}
//
//	// ... to stop reading, call port.Close() from another goroutine
package serial
