package jwt

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/MrEthical07/goJWT/internal/jws"
)

// Header is the decoded JOSE header.
type Header map[string]any

// Algorithm returns the alg field, or "" when it is missing or not a string.
func (h Header) Algorithm() string {
	s, _ := h["alg"].(string)
	return s
}

// KeyID returns the kid field, or "".
func (h Header) KeyID() string {
	s, _ := h["kid"].(string)
	return s
}

// Token is a decoded compact token. Payload is Claims for JSON object
// payloads and string otherwise.
type Token struct {
	Header    Header
	Payload   any
	Signature string
	Raw       string
}

// Claims returns the payload when it is structured.
func (t *Token) Claims() (Claims, bool) {
	if t == nil {
		return nil, false
	}
	c, ok := t.Payload.(Claims)
	return c, ok
}

// DecodeOptions controls Decode.
type DecodeOptions struct {
	// Complete returns a *Token instead of the payload.
	Complete bool
	// JSON requires the payload to be valid JSON even without typ "JWT".
	JSON bool
}

var compactPattern = regexp.MustCompile(`^[a-zA-Z0-9\-_]+?\.[a-zA-Z0-9\-_]+?\.([a-zA-Z0-9\-_]+)?$`)

// Decode returns the payload of token (or a *Token when Complete is set)
// without checking the signature or any claim. It returns nil when token is
// malformed.
func Decode(token string, opts DecodeOptions) any {
	t, ok := decodeToken(token, opts.JSON)
	if !ok {
		return nil
	}
	if opts.Complete {
		return t
	}
	return t.Payload
}

// decodeToken splits and decodes the three segments. The header must be a
// JSON object; the payload must be JSON when the header declares typ "JWT"
// or forceJSON is set.
func decodeToken(raw string, forceJSON bool) (*Token, bool) {
	if !compactPattern.MatchString(raw) {
		return nil, false
	}
	parts := strings.Split(raw, ".")

	hb, err := jws.DecodeSegment(parts[0])
	if err != nil {
		return nil, false
	}
	var header Header
	if err := json.Unmarshal(hb, &header); err != nil || header == nil {
		return nil, false
	}

	pb, err := jws.DecodeSegment(parts[1])
	if err != nil {
		return nil, false
	}
	text := string(pb)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}

	t := &Token{Header: header, Signature: parts[2], Raw: raw}

	typ, _ := header["typ"].(string)
	if typ == "JWT" || forceJSON {
		if !json.Valid([]byte(text)) {
			return nil, false
		}
		if strings.TrimSpace(text) == "null" {
			return t, true
		}
	}
	t.Payload = parsePayload(text)
	return t, true
}

// parsePayload returns Claims for a JSON object and the text otherwise.
func parsePayload(text string) any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil || obj == nil {
		return text
	}
	return Claims(obj)
}
