package gfx

import (
	"errors"
	"fmt"
	"image"

	"LocalSketch/internal/logging"
)

// Offscreen owns a memory context created by a Compatible context. Draw
// into DC, copy the result with CopyTo and Close when done.
type Offscreen struct {
	noCopy noCopy

	owner Compatible
	dc    DC
}

// NewOffscreen creates a w×h context compatible with owner.
func NewOffscreen(owner Compatible, w, h int) (*Offscreen, error) {
	if IsNil(owner) {
		return nil, fmt.Errorf("create offscreen: %w", ErrInvalidContext)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("create offscreen: %w: size %dx%d", ErrResourceCreation, w, h)
	}
	dc, err := owner.CreateCompatibleDC(w, h)
	if err != nil {
		if !errors.Is(err, ErrResourceCreation) {
			err = fmt.Errorf("%w: %w", ErrResourceCreation, err)
		}
		return nil, fmt.Errorf("create offscreen: %w", err)
	}
	if IsNil(dc) {
		return nil, fmt.Errorf("create offscreen: %w", ErrResourceCreation)
	}
	return &Offscreen{owner: owner, dc: dc}, nil
}

// DC returns the memory context, or nil once closed or detached.
func (o *Offscreen) DC() DC { return o.dc }

// CopyTo copies the whole memory context onto the owner with its top-left
// corner at dst.
func (o *Offscreen) CopyTo(dst image.Point) error {
	if o.dc == nil {
		return fmt.Errorf("copy offscreen: %w: released", ErrInvalidContext)
	}
	return o.owner.BitBlt(dst, o.dc)
}

// Close deletes the memory context. Only the first call does anything.
func (o *Offscreen) Close() error {
	dc := o.dc
	o.dc = nil
	if dc == nil {
		return nil
	}
	if err := o.owner.DeleteDC(dc); err != nil {
		logging.Logger().Warn("gfx: delete offscreen failed", "err", err)
		return fmt.Errorf("delete offscreen: %w", err)
	}
	return nil
}

// Detach hands the memory context to the caller, who must release it with
// the owner's DeleteDC.
func (o *Offscreen) Detach() DC {
	dc := o.dc
	o.dc = nil
	return dc
}
