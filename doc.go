// Package serial provides the line-oriented serial transport used by the
// serial monitor.
//
// On Linux the port is driven directly through termios, with reads gated
// by poll(2) so that Close can interrupt a pending ReadLine. Other
// platforms go through go.bug.st/serial.
//
// # Basic Usage
//
//	port, err := serial.Open(serial.Resolve("ACM0"), serial.WithBaudRate(115200))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	for {
//	    line, err := port.ReadLine()
//	    if err != nil {
//	        break // ErrHangup, ErrPortClosed
//	    }
//	    if line == nil {
//	        continue // idle
//	    }
//	    fmt.Println(string(line))
//	}
//
// # Port Names
//
// Resolve maps short names onto device paths: ACM0 becomes /dev/ttyACM0,
// ttyUSB0 becomes /dev/ttyUSB0, and COM3 is left alone on Windows. Paths
// are returned unchanged.
//
// # Port Discovery
//
//	ports, err := serial.ListPortDetails()
//	for _, info := range serial.FilterPorts(ports, "usb") {
//	    fmt.Printf("%s: %s (VID=%s PID=%s)\n",
//	        info.Path, info.Description, info.VendorID, info.ProductID)
//	}
//
// # Error Handling
//
// Open maps OS failures onto sentinel errors so callers can decide whether
// retrying makes sense:
//
//	if errors.Is(err, serial.ErrDeviceNotFound) {
//	    // not plugged in yet
//	}
//
// # Default Configuration
//
//   - BaudRate: 115200
//   - DataBits: 8
//   - StopBits: 1
//   - Parity: None
//   - Delimiter: '\n'
//   - ReadTimeout: 100ms
//   - MaxLineLength: 4096
package serial
