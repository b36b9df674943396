package lbvh

import "errors"

var (
	ErrNoBoxes        = errors.New("at least one box is required to build a tree")
	ErrTooManyBoxes   = errors.New("too many boxes for 32 bit node indices")
	ErrInvalidScale   = errors.New("the box scale factor must be finite and positive")
	ErrCurveDimension = errors.New("the space filling curve does not support this dimension")
	ErrUnknownSort    = errors.New("unknown sort strategy")
)
