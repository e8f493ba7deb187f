package studio

import (
	"errors"
	"fmt"
	"net"
	"os/exec"
	"runtime"
)

// portScanWindow is how many ports above the configured one are tried.
const portScanWindow = 100

var errNoFreePort = errors.New("no free port")

// freePort returns the first port in [start, start+portScanWindow) that can be
// bound on all interfaces.
func freePort(start int) (int, error) {
	for port := start; port < start+portScanWindow; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			continue
		}
		ln.Close()
		return port, nil
	}
	return 0, fmt.Errorf("%w in %d-%d", errNoFreePort, start, start+portScanWindow-1)
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		return "open", []string{url}
	default:
		return "xdg-open", []string{url}
	}
}

func openBrowser(url string) error {
	name, args := browserCommand(runtime.GOOS, url)
	return exec.Command(name, args...).Start()
}
