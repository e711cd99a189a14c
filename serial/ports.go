package serial

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

const devFolder = "/dev"

// ttyPattern matches device names that look like physical or virtual serial
// ports: built-in UARTs, USB adapters, ACM modems, ARM AMBA ports, Bluetooth
// channels and vendor consoles.
var ttyPattern = regexp.MustCompile(`^(ttyS|ttyUSB|ttyACM|ttyAMA|ttyHS|ttyMSM|ttyO|ttyTHS|rfcomm)[0-9]+$`)

// List returns the device paths of the serial ports present on the system,
// in name order.
func List() ([]string, error) {
	entries, err := os.ReadDir(devFolder)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", devFolder, err)
	}
	ports := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !ttyPattern.MatchString(e.Name()) {
			continue
		}
		ports = append(ports, filepath.Join(devFolder, e.Name()))
	}
	return ports, nil
}
