package collector

import (
	"net"
	"os"
	"strings"

	"github.com/spanline/spanline/trace"
)

// ResolveEndpoint computes this service's network identity once, at
// startup. The service name comes from the first label of the DOMAIN
// environment variable when present, else the configured default.
func ResolveEndpoint(serviceName string, port int) trace.Endpoint {
	name := serviceName
	if domain := os.Getenv("DOMAIN"); domain != "" {
		name = domain
		if i := strings.IndexByte(domain, '.'); i > 0 {
			name = domain[:i]
		}
	}
	return trace.Endpoint{
		IPv4:        hostIPv4(),
		Port:        port,
		ServiceName: name,
	}
}

// hostIPv4 returns the first non-loopback IPv4 address of this host,
// falling back to loopback when none is up.
func hostIPv4() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if v4 := ipnet.IP.To4(); v4 != nil {
			return v4.String()
		}
	}
	return "127.0.0.1"
}
