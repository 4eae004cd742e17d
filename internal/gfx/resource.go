package gfx

import (
	"errors"
	"fmt"

	"LocalSketch/internal/logging"
)

// noCopy makes go vet's copylocks check flag wrappers passed by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// resource owns one created object and tracks where it is selected.
type resource struct {
	noCopy noCopy

	dev   Device
	obj   Object
	owned bool

	dc  DC
	old Object
}

func create(dev Device, what string, fn func() (Object, error)) (Object, error) {
	if dev == nil {
		return nil, fmt.Errorf("create %s: %w", what, ErrInvalidContext)
	}
	obj, err := fn()
	if err != nil {
		if !errors.Is(err, ErrResourceCreation) {
			err = fmt.Errorf("%w: %w", ErrResourceCreation, err)
		}
		return nil, fmt.Errorf("create %s: %w", what, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("create %s: %w", what, ErrResourceCreation)
	}
	return obj, nil
}

// unbind puts the stock object of kind back into dc after a selection
// that reported no previous object.
func unbind(dc DC, kind Kind) {
	var st Stock
	switch kind {
	case KindPen:
		st = BlackPen
	case KindBrush:
		st = WhiteBrush
	case KindFont:
		st = SystemFont
	default:
		return
	}
	obj := dc.StockObject(st)
	if obj == nil {
		return
	}
	if _, err := dc.SelectObject(obj); err != nil {
		logging.Logger().Warn("gfx: unbind failed", "kind", kind, "err", err)
	}
}

// Object returns the wrapped object, or nil once closed or detached.
func (r *resource) Object() Object { return r.obj }

// Select binds the object into dc and returns the object it replaced. If the
// wrapper is currently bound to another context it is restored there first.
// Selecting into the same context twice is a no-op that returns the
// original previous object.
func (r *resource) Select(dc DC) (Object, error) {
	if IsNil(dc) {
		return nil, fmt.Errorf("select: %w", ErrInvalidContext)
	}
	if r.obj == nil {
		return nil, fmt.Errorf("select: %w: object released", ErrBind)
	}
	if r.dc != nil && r.dc != dc {
		r.Restore()
	}
	if r.dc == nil {
		old, err := dc.SelectObject(r.obj)
		if err != nil {
			if !errors.Is(err, ErrBind) {
				err = fmt.Errorf("%w: %w", ErrBind, err)
			}
			return nil, fmt.Errorf("select %s: %w", r.obj.Kind(), err)
		}
		if old == nil {
			unbind(dc, r.obj.Kind())
			return nil, fmt.Errorf("select %s: %w: no previous object", r.obj.Kind(), ErrBind)
		}
		r.dc, r.old = dc, old
	}
	return r.old, nil
}

// Restore rebinds the object that Select replaced. It is safe to call any
// number of times.
func (r *resource) Restore() {
	if r.dc == nil || r.old == nil {
		return
	}
	if _, err := r.dc.SelectObject(r.old); err != nil {
		logging.Logger().Warn("gfx: restore failed", "kind", r.old.Kind(), "err", err)
	}
	r.dc, r.old = nil, nil
}

// Close restores the previous binding and deletes the object. Only the
// first call does anything.
func (r *resource) Close() error {
	r.Restore()
	obj, owned := r.obj, r.owned
	r.obj, r.owned = nil, false
	if obj == nil || !owned {
		return nil
	}
	if err := r.dev.DeleteObject(obj); err != nil {
		logging.Logger().Warn("gfx: delete failed", "kind", obj.Kind(), "err", err)
		return fmt.Errorf("delete %s: %w", obj.Kind(), err)
	}
	return nil
}

// Detach restores the previous binding and hands the object to the caller,
// who becomes responsible for deleting it.
func (r *resource) Detach() Object {
	r.Restore()
	obj := r.obj
	r.obj, r.owned = nil, false
	return obj
}

// Pen is a scoped pen. Use it through a pointer and defer Close.
type Pen struct{ resource }

// NewPen creates a pen on dev.
func NewPen(dev Device, style PenStyle, width int, c RGB) (*Pen, error) {
	obj, err := create(dev, "pen", func() (Object, error) { return dev.CreatePen(style, width, c) })
	if err != nil {
		return nil, err
	}
	return &Pen{resource{dev: dev, obj: obj, owned: true}}, nil
}

// Brush is a scoped solid brush.
type Brush struct{ resource }

// NewBrush creates a solid brush on dev.
func NewBrush(dev Device, c RGB) (*Brush, error) {
	obj, err := create(dev, "brush", func() (Object, error) { return dev.CreateSolidBrush(c) })
	if err != nil {
		return nil, err
	}
	return &Brush{resource{dev: dev, obj: obj, owned: true}}, nil
}

// Font is a scoped font.
type Font struct{ resource }

// NewFont creates a font from desc on dev.
func NewFont(dev Device, desc FontDesc) (*Font, error) {
	obj, err := create(dev, "font", func() (Object, error) { return dev.CreateFont(desc) })
	if err != nil {
		return nil, err
	}
	return &Font{resource{dev: dev, obj: obj, owned: true}}, nil
}

// Selector binds an object it does not own, such as a stock object, and
// puts the previous one back on Restore.
type Selector struct {
	noCopy noCopy

	dc  DC
	old Object
}

// Select binds obj into dc.
func Select(dc DC, obj Object) (*Selector, error) {
	if IsNil(dc) {
		return nil, fmt.Errorf("select: %w", ErrInvalidContext)
	}
	if obj == nil {
		return nil, fmt.Errorf("select: %w: nil object", ErrBind)
	}
	old, err := dc.SelectObject(obj)
	if err != nil {
		if !errors.Is(err, ErrBind) {
			err = fmt.Errorf("%w: %w", ErrBind, err)
		}
		return nil, fmt.Errorf("select %s: %w", obj.Kind(), err)
	}
	if old == nil {
		unbind(dc, obj.Kind())
		return nil, fmt.Errorf("select %s: %w: no previous object", obj.Kind(), ErrBind)
	}
	return &Selector{dc: dc, old: old}, nil
}

// Old returns the object that was bound before Select, or nil once restored.
func (s *Selector) Old() Object { return s.old }

// Restore rebinds the previous object. Safe to call repeatedly.
func (s *Selector) Restore() {
	if s.dc == nil || s.old == nil {
		return
	}
	if _, err := s.dc.SelectObject(s.old); err != nil {
		logging.Logger().Warn("gfx: restore failed", "kind", s.old.Kind(), "err", err)
	}
	s.dc, s.old = nil, nil
}
