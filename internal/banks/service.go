// Package banks is the in-memory directory of Indian banks used to route
// statements and describe accounts.
package banks

import (
	"strings"
)

// Bank is one directory record.
type Bank struct {
	Code       string   // short code, e.g. "HDFC"
	Name       string   // display name
	IFSCPrefix string   // first four characters of the bank's IFSC codes
	Markers    []string // lower-case phrases that identify the bank's statements
	Patterns   []string // looser upper-case name forms used for scored detection
}

// Match is the result of scored name detection.
type Match struct {
	Bank       Bank
	Confidence int // 0-95
}

// minConfidence is the score below which detection reports no bank.
const minConfidence = 30

// Service provides in-memory lookup over the bank directory.
type Service struct {
	banks  []Bank
	byCode map[string]Bank
	byIFSC map[string]Bank
}

// NewService creates a Service from a slice of banks.
func NewService(banks []Bank) *Service {
	byCode := make(map[string]Bank, len(banks))
	byIFSC := make(map[string]Bank, len(banks))
	for _, b := range banks {
		byCode[strings.ToUpper(b.Code)] = b
		if b.IFSCPrefix != "" {
			byIFSC[strings.ToUpper(b.IFSCPrefix)] = b
		}
	}
	return &Service{banks: banks, byCode: byCode, byIFSC: byIFSC}
}

// All returns all banks in directory order.
func (s *Service) All() []Bank {
	return s.banks
}

// Get returns a bank by code, case-insensitively.
func (s *Service) Get(code string) (Bank, bool) {
	b, ok := s.byCode[strings.ToUpper(code)]
	return b, ok
}

// ByIFSC returns the bank owning an IFSC code (or bare four-letter prefix).
func (s *Service) ByIFSC(ifsc string) (Bank, bool) {
	if len(ifsc) < 4 {
		return Bank{}, false
	}
	b, ok := s.byIFSC[strings.ToUpper(ifsc[:4])]
	return b, ok
}

// HasMarker reports whether text carries one of the bank's statement markers.
func (b Bank) HasMarker(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range b.Markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// Detect scores every bank's name patterns against text and returns the best
// match. Each pattern scores min(95, 20 per occurrence + 2 per character).
func (s *Service) Detect(text string) (Match, bool) {
	upper := strings.ToUpper(text)
	var best Match
	for _, b := range s.banks {
		for _, p := range b.Patterns {
			n := strings.Count(upper, strings.ToUpper(p))
			if n == 0 {
				continue
			}
			conf := min(95, n*20+len(p)*2)
			if conf > best.Confidence {
				best = Match{Bank: b, Confidence: conf}
			}
		}
	}
	if best.Confidence < minConfidence {
		return Match{}, false
	}
	return best, true
}
