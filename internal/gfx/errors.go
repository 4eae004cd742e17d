package gfx

import "errors"

var (
	// ErrResourceCreation means a pen, brush or font could not be created.
	ErrResourceCreation = errors.New("gfx: resource creation failed")

	// ErrBind means selecting an object into a context failed.
	ErrBind = errors.New("gfx: bind failed")

	// ErrInvalidContext means a nil drawing context was passed.
	ErrInvalidContext = errors.New("gfx: invalid drawing context")
)
