package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Points is an optional score value. The zero value is absent.
type Points struct {
	value int
	ok    bool
}

// NoPoints is the absent value
var NoPoints = Points{}

// PointsOf returns a present value
func PointsOf(v int) Points {
	return Points{value: v, ok: true}
}

// Get returns the value and whether it is present
func (p Points) Get() (int, bool) {
	return p.value, p.ok
}

// Present reports whether a value is set
func (p Points) Present() bool {
	return p.ok
}

// OrZero returns the value, or 0 when absent
func (p Points) OrZero() int {
	if !p.ok {
		return 0
	}
	return p.value
}

// Ptr returns a pointer to a copy of the value, or nil when absent
func (p Points) Ptr() *int {
	if !p.ok {
		return nil
	}
	v := p.value
	return &v
}

// PointsFromPtr is the inverse of Ptr
func PointsFromPtr(v *int) Points {
	if v == nil {
		return NoPoints
	}
	return PointsOf(*v)
}

func (p Points) String() string {
	if !p.ok {
		return "-"
	}
	return strconv.Itoa(p.value)
}

// MarshalJSON encodes absent as null
func (p Points) MarshalJSON() ([]byte, error) {
	if !p.ok {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(p.value)), nil
}

// UnmarshalJSON decodes null as absent
func (p *Points) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*p = NoPoints
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = PointsOf(v)
	return nil
}
