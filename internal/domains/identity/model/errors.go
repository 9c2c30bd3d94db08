package model

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
)
