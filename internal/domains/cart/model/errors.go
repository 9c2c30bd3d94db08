package model

import "errors"

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrDuplicateLine   = errors.New("duplicate line for book")
)
