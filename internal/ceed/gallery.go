package ceed

import (
	"errors"
	"fmt"
	"sort"
)

// galleryEntry builds a named QFunction.
type galleryEntry struct {
	user   QFunctionUser
	fields func(qf *QFunction) error
}

var gallery = map[string]galleryEntry{
	"Identity": {
		user: identityUser,
		fields: func(qf *QFunction) error {
			if err := qf.AddInput("input", 1, EvalInterp); err != nil {
				return err
			}
			return qf.AddOutput("output", 1, EvalInterp)
		},
	},
	"Scale": {
		user: scaleUser,
		fields: func(qf *QFunction) error {
			if err := qf.AddInput("input", 1, EvalInterp); err != nil {
				return err
			}
			return qf.AddOutput("output", 1, EvalInterp)
		},
	},
}

// GalleryNames lists the QFunctions available by name.
func GalleryNames() []string {
	names := make([]string, 0, len(gallery))
	for name := range gallery {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// QFunctionCreateInteriorByName creates a QFunction from the gallery with its
// fields already declared. "Scale" reads its factor from a Scalar context.
func (c *Ceed) QFunctionCreateInteriorByName(name string) (*QFunction, error) {
	g, ok := gallery[name]
	if !ok {
		return nil, fmt.Errorf("qfunction gallery %q: %w", name, ErrNotImplemented)
	}
	qf, err := c.QFunctionCreateInterior(1, g.user, "gallery:"+name)
	if err != nil {
		return nil, err
	}
	if err := g.fields(qf); err != nil {
		return nil, errors.Join(fmt.Errorf("qfunction gallery %q: %w", name, err), qf.Destroy())
	}
	return qf, nil
}

func identityUser(_ any, q int, in, out [][]Scalar) error {
	copy(out[0][:q], in[0][:q])
	return nil
}

func scaleUser(ctx any, q int, in, out [][]Scalar) error {
	alpha, ok := ctx.(Scalar)
	if !ok {
		return fmt.Errorf("scale qfunction: context data is %T, want Scalar: %w", ctx, ErrUnsupported)
	}
	for i := range q {
		out[0][i] = alpha * in[0][i]
	}
	return nil
}
