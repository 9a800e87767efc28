package orders

import (
	"fmt"
	"strings"

	hashids "github.com/speps/go-hashids/v2"
)

// refAlphabet drops ambiguous characters (0/O, 1/I/L) so codes survive being
// read over the phone.
const refAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// RefCoder turns internal order ids into short public reference codes shown
// to customers and the admin console.
type RefCoder struct {
	h *hashids.HashID
}

func NewRefCoder(salt string) (*RefCoder, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 6
	hd.Alphabet = refAlphabet

	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("ref coder: %w", err)
	}
	return &RefCoder{h: h}, nil
}

func (c *RefCoder) Encode(orderID int64) (string, error) {
	code, err := c.h.EncodeInt64([]int64{orderID})
	if err != nil {
		return "", fmt.Errorf("encode order ref: %w", err)
	}
	return "PM-" + code, nil
}

func (c *RefCoder) Decode(ref string) (int64, error) {
	code := strings.TrimPrefix(ref, "PM-")
	ids, err := c.h.DecodeInt64WithError(code)
	if err != nil {
		return 0, fmt.Errorf("decode order ref %q: %w", ref, err)
	}
	if len(ids) != 1 {
		return 0, fmt.Errorf("decode order ref %q: unexpected payload", ref)
	}
	return ids[0], nil
}
