package domain

import "strings"

// Keyword tokens making up the metadata signal. The signal lives in the
// document's free-text keyword field and allows presence detection without
// opening the name tree.
const (
	TokenPresent = "StructPDF:true"

	tokenDomainPrefix   = "StructPDF-Domain:"
	tokenSpecIDPrefix   = "StructPDF-SpecID:"
	tokenSpecNamePrefix = "StructPDF-SpecName:"
)

// Custom document-information keys recorded alongside the keyword signal.
const (
	InfoKeyHasPayload = "HasStructPDF"
	InfoKeyVersion    = "StructPDFVersion"
	InfoKeyDomain     = "StructPDFDomain"
)

// Signal is the side-channel presence marker encoded as space-delimited
// key:value keyword tokens.
type Signal struct {
	Domain   string
	SpecID   string
	SpecName string
}

// Tokens renders the signal as keyword tokens. Token values are
// space-delimited on the wire, so embedded whitespace is folded to
// underscores.
func (s Signal) Tokens() []string {
	tokens := []string{TokenPresent}
	if s.Domain != "" {
		tokens = append(tokens, tokenDomainPrefix+sanitizeToken(s.Domain))
	}
	if s.SpecID != "" {
		tokens = append(tokens, tokenSpecIDPrefix+sanitizeToken(s.SpecID))
	}
	if s.SpecName != "" {
		tokens = append(tokens, tokenSpecNamePrefix+sanitizeToken(s.SpecName))
	}
	return tokens
}

// ParseSignal scans a keyword string for StructPDF tokens. The second
// return value reports whether the presence token was found at all.
func ParseSignal(keywords string) (Signal, bool) {
	var sig Signal
	found := false
	for _, tok := range strings.Fields(keywords) {
		switch {
		case tok == TokenPresent:
			found = true
		case strings.HasPrefix(tok, tokenDomainPrefix):
			sig.Domain = strings.TrimPrefix(tok, tokenDomainPrefix)
		case strings.HasPrefix(tok, tokenSpecIDPrefix):
			sig.SpecID = strings.TrimPrefix(tok, tokenSpecIDPrefix)
		case strings.HasPrefix(tok, tokenSpecNamePrefix):
			sig.SpecName = strings.TrimPrefix(tok, tokenSpecNamePrefix)
		}
	}
	return sig, found
}

func sanitizeToken(v string) string {
	return strings.Join(strings.Fields(v), "_")
}
