package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// userID accepts both 42 and "42" in request bodies; browsers sometimes send
// ids read back from form fields as strings.
type userID struct {
	value int64
	set   bool
}

func (u *userID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if raw == "" {
			return nil
		}
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q", raw)
	}
	u.value, u.set = v, true
	return nil
}

type taskRequest struct {
	Description *string `json:"description"`
	UserID      userID  `json:"userId"`
}

type statusRequest struct {
	Status *string `json:"status"`
	UserID userID  `json:"userId"`
}

type clearRequest struct {
	UserID userID `json:"userId"`
}
