package model

import (
	"encoding/json"
	"fmt"
)

// Kinds serialize as their string names so exported reports stay readable
// and stable across re-orderings of the enum.

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "file":
		*k = KindFile
	case "dir":
		*k = KindDirectory
	case "symlink":
		*k = KindSymlink
	case "other":
		*k = KindOther
	default:
		return fmt.Errorf("unknown node kind %q", s)
	}
	return nil
}

func (k ErrorKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *ErrorKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "permission denied":
		*k = ErrPermissionDenied
	case "not found":
		*k = ErrNotFound
	case "symlink cycle":
		*k = ErrSymlinkCycle
	case "io error":
		*k = ErrIO
	case "other":
		*k = ErrOther
	default:
		return fmt.Errorf("unknown error kind %q", s)
	}
	return nil
}
