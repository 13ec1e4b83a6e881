package validate

import (
	"testing"

	"github.com/callaa/drawpile-listing/internal/errs"
)

func TestHostname_PublicIP(t *testing.T) {
	testCases := []string{"1.2.3.4", "198.51.100.7", "2001:db8::1"}

	for _, host := range testCases {
		err := Hostname(host, false, false)
		if err != nil {
			t.Errorf("Hostname(%q) error = %v, want nil", host, err)
		}
	}
}

func TestHostname_PrivateIPRejected(t *testing.T) {
	testCases := []string{
		"127.0.0.1",
		"10.0.0.5",
		"172.16.1.1",
		"192.168.1.20",
		"169.254.0.1",
		"0.0.0.0",
		"::1",
		"fe80::1",
	}

	for _, host := range testCases {
		err := Hostname(host, false, false)
		if !errs.IsKind(err, errs.KindLocalIP) {
			t.Errorf("Hostname(%q) error = %v, want LOCALIP", host, err)
		}
	}
}

func TestHostname_PrivateIPAllowed(t *testing.T) {
	testCases := []string{"127.0.0.1", "192.168.1.20", "::1"}

	for _, host := range testCases {
		err := Hostname(host, true, false)
		if err != nil {
			t.Errorf("Hostname(%q) with allowPrivate error = %v, want nil", host, err)
		}
	}
}

func TestHostname_ValidDomain(t *testing.T) {
	testCases := []string{
		"example.com",
		"drawpile.net",
		"pub.listing.example.co.uk",
		"xn--bcher-kva.example",
		"a.b",
	}

	for _, host := range testCases {
		err := Hostname(host, false, false)
		if err != nil {
			t.Errorf("Hostname(%q) error = %v, want nil", host, err)
		}
	}
}

func TestHostname_InvalidDomain(t *testing.T) {
	long := make([]byte, 254)
	for i := range long {
		long[i] = 'a'
	}

	testCases := []string{
		"",
		"localhost",          // no dot
		"-example.com",       // label starts with hyphen
		"example-.com",       // label ends with hyphen
		"exa mple.com",       // whitespace
		"example..com",       // empty label
		".example.com",       // leading dot
		"example.com.",       // trailing dot
		"under_score.com",    // bad character
		string(long) + ".io", // too long
	}

	for _, host := range testCases {
		err := Hostname(host, false, false)
		if !errs.IsKind(err, errs.KindBadData) {
			t.Errorf("Hostname(%q) error = %v, want BADDATA", host, err)
		}
	}
}

func TestHostname_LongLabelRejected(t *testing.T) {
	label := make([]byte, 64)
	for i := range label {
		label[i] = 'a'
	}

	err := Hostname(string(label)+".com", false, false)
	if !errs.IsKind(err, errs.KindBadData) {
		t.Errorf("Hostname() with 64-char label error = %v, want BADDATA", err)
	}
}

func TestSessionID_Valid(t *testing.T) {
	testCases := []string{
		"abc",
		"ABC-123",
		"a",
		"07a5e0c1-e493-4c12-a4e8-d57dbde6b035",
		"dp:session:1",
	}

	for _, id := range testCases {
		err := SessionID(id)
		if err != nil {
			t.Errorf("SessionID(%q) error = %v, want nil", id, err)
		}
	}
}

func TestSessionID_Invalid(t *testing.T) {
	long := make([]byte, 65)
	for i := range long {
		long[i] = 'x'
	}

	testCases := []string{
		"",
		"has space",
		"ünïcode",
		"slash/id",
		string(long),
	}

	for _, id := range testCases {
		err := SessionID(id)
		if !errs.IsKind(err, errs.KindBadData) {
			t.Errorf("SessionID(%q) error = %v, want BADDATA", id, err)
		}
	}
}

func TestPort_Valid(t *testing.T) {
	testCases := []int{1, 80, 27750, 65535}

	for _, p := range testCases {
		err := Port(p)
		if err != nil {
			t.Errorf("Port(%d) error = %v, want nil", p, err)
		}
	}
}

func TestPort_Invalid(t *testing.T) {
	testCases := []int{0, -1, 65536, 100000}

	for _, p := range testCases {
		err := Port(p)
		if !errs.IsKind(err, errs.KindBadData) {
			t.Errorf("Port(%d) error = %v, want BADDATA", p, err)
		}
	}
}
