package godtc

import (
	"sort"
	"strings"
)

// ServiceMode describes an OBD-II service that reports trouble codes.
type ServiceMode struct {
	Request     string
	Response    byte
	Name        string
	Description string
}

var serviceModes = map[string]ServiceMode{
	"03": {Request: "03", Response: 0x43, Name: "CURRENT", Description: "Current DTCs"},
	"07": {Request: "07", Response: 0x47, Name: "PENDING", Description: "Pending DTCs"},
	"0A": {Request: "0A", Response: 0x4A, Name: "PERMANENT", Description: "Permanent DTCs"},
}

// LookupMode finds the service for a request string like "03" or "0a".
func LookupMode(mode string) (ServiceMode, bool) {
	m, ok := serviceModes[strings.ToUpper(strings.TrimSpace(mode))]
	return m, ok
}

// Modes returns all known services ordered by request.
func Modes() []ServiceMode {
	out := make([]ServiceMode, 0, len(serviceModes))
	for _, m := range serviceModes {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Request < out[j].Request
	})
	return out
}
