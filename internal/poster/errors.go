package poster

import "fmt"

// RenderError reports an asset, font or encoding failure. Asset and font failures are
// recovered by falling back; only encoding failures fail a render.
type RenderError struct {
	Op   string
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("render %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("render %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
