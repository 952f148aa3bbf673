package layout

import (
	"io"

	"github.com/penwyp/go-trace-timeline/internal/core/model"
)

// LayoutStrategy draws one frame of the scrub screen
type LayoutStrategy interface {
	Render(w io.Writer, frame *model.Frame, param model.LayoutParam)
	GetName() string
}

// GetLayoutStrategy returns the strategy for a model.Layout* style
func GetLayoutStrategy(layoutStyle int, sizer *Sizer) LayoutStrategy {
	if sizer == nil {
		sizer = NewSizer(defaultWidth)
	}
	base := BaseStrategy{sizer: sizer}

	switch layoutStyle {
	case model.LayoutMinimal:
		return &MinimalLayoutStrategy{BaseStrategy: base}
	default:
		return &FullLayoutStrategy{BaseStrategy: base}
	}
}
