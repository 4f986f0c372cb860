package render

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophtrip/internal/client/models"
)

type Renderer interface {
	Render(ctx context.Context, s *models.Session, g models.Geometry) error
}

// Multi renders to every renderer in order and joins their errors.
type Multi []Renderer

func (m Multi) Render(ctx context.Context, s *models.Session, g models.Geometry) error {
	var errs []error
	for _, r := range m {
		if err := r.Render(ctx, s, g); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
