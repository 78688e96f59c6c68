package mock

import "github.com/fwojciec/readerly"

var _ readerly.Converter = (*Converter)(nil)

// Converter is a mock implementation of readerly.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
