package models

import "errors"

// ErrNotFound indicates a referenced animal type, animal or disease does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidInput indicates the request could not be evaluated as given.
var ErrInvalidInput = errors.New("invalid input")
