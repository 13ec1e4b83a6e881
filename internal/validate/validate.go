// Package validate holds the pure input validators for session announcements.
// Policy knobs (private IP allowance, hostname resolution) come in as
// arguments; the package keeps no state.
package validate

import (
	"net"
	"regexp"
	"strings"

	"github.com/callaa/drawpile-listing/internal/errs"
)

var (
	sessionIDRe = regexp.MustCompile(`^[A-Za-z0-9:-]{1,64}$`)
	// LDH labels joined by dots; at least one dot so bare names like
	// "localhost" are not accepted as public hosts.
	domainRe = regexp.MustCompile(`^(?i)[a-z0-9](?:-*[a-z0-9])*(?:\.[a-z0-9](?:-*[a-z0-9])*)+$`)
)

// Hostname checks that host is a usable public address. IP literals are
// accepted directly, subject to the private-address policy. Anything else is
// treated as a domain name: resolved when resolve is true, otherwise matched
// against the domain grammar.
func Hostname(host string, allowPrivate, resolve bool) error {
	if ip := net.ParseIP(host); ip != nil {
		if !allowPrivate && isPrivate(ip) {
			return errs.LocalIP("Private host address!")
		}
		return nil
	}

	if resolve {
		addrs, err := net.LookupIP(host)
		if err != nil || len(addrs) == 0 {
			return errs.BadData("Invalid host address")
		}
		return nil
	}

	if len(host) > 253 || !domainRe.MatchString(host) {
		return errs.BadData("Invalid host address")
	}
	for _, label := range strings.Split(host, ".") {
		if len(label) < 1 || len(label) > 63 {
			return errs.BadData("Invalid host address")
		}
	}
	return nil
}

// SessionID checks the caller-supplied session id: 1-64 chars of
// [A-Za-z0-9:-].
func SessionID(s string) error {
	if !sessionIDRe.MatchString(s) {
		return errs.BadData("Invalid session ID")
	}
	return nil
}

// Port checks that p is a valid TCP port.
func Port(p int) error {
	if p < 1 || p > 65535 {
		return errs.BadData("Invalid port number")
	}
	return nil
}

func isPrivate(ip net.IP) bool {
	return ip.IsPrivate() ||
		ip.IsLoopback() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified()
}
