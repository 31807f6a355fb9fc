package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// RawNumber accepts a JSON number or a quoted number and keeps its text for later parsing.
type RawNumber string

func (n *RawNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = ""
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	*n = RawNumber(strings.TrimSpace(s))
	return nil
}

// NullableInt tells an absent field apart from an explicit null.
type NullableInt struct {
	Set   bool
	Value *int64
}

func (n *NullableInt) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

func (n NullableInt) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}
