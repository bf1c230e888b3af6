package cropper

import (
	"image"
	"math"
)

// Planner computes a single square crop rectangle for an image, centered on
// the largest detected face when one is available, or on a geometric band
// otherwise.
type Planner struct {
	opts Options
}

// NewPlanner creates a planner with the given options.
func NewPlanner(opts Options) *Planner {
	return &Planner{opts: opts}
}

// Plan returns the crop rectangle for an image of the given size. The second
// return value reports whether the face-based path succeeded; every fallback
// reports false.
func (p *Planner) Plan(width, height int, faces []image.Rectangle) (image.Rectangle, bool) {
	if width <= 0 || height <= 0 {
		return image.Rectangle{}, false
	}
	if len(faces) == 0 {
		return p.centerSquare(width, height), false
	}

	face := largestFace(faces)

	// Center of the face, shifted up to keep hair and forehead in frame.
	cx := face.Min.X + face.Dx()/2
	cy := face.Min.Y + face.Dy()/2
	bias := int(math.Round(p.opts.UpwardBias * float64(face.Dy())))
	if bias > 0 {
		cy -= bias
	}

	faceSize := face.Dx()
	if face.Dy() > faceSize {
		faceSize = face.Dy()
	}
	cropSize := int(math.Round(float64(faceSize) * (1 + p.opts.PaddingFactor)))
	half := cropSize / 2

	left := clamp(cx-half, 0, width)
	top := clamp(cy-half, 0, height)
	right := clamp(cx+half, 0, width)
	bottom := clamp(cy+half, 0, height)

	// Clamping against an edge can shrink the square into a sliver; a crop
	// that small loses too much context, so give up on the face path.
	minSide := p.opts.MinCropFraction * float64(min(width, height))
	if float64(right-left) < minSide || float64(bottom-top) < minSide {
		return p.centerSquare(width, height), false
	}

	rect := resquare(image.Rect(left, top, right, bottom), width, height)
	return rect, true
}

// centerSquare produces the largest square inscribed in the image. Portrait
// images bias the square toward the upper band of the frame, where faces and
// hair statistically sit; landscape and square images crop dead center.
func (p *Planner) centerSquare(width, height int) image.Rectangle {
	if height > width {
		size := width
		top := int(math.Round(p.opts.TopBandFraction * float64(height)))
		if top+size > height {
			top = height - size
		}
		return image.Rect(0, top, width, top+size)
	}

	size := min(width, height)
	left := (width - size) / 2
	top := (height - size) / 2
	return image.Rect(left, top, left+size, top+size)
}

// resquare restores a square aspect after clamping, expanding the shorter
// axis outward (within bounds) to preserve facial context, then trimming the
// longer axis when the image edge leaves no room to expand.
func resquare(r image.Rectangle, width, height int) image.Rectangle {
	w, h := r.Dx(), r.Dy()
	if w < h {
		r.Min.X = clamp(r.Min.X-(h-w)/2, 0, width)
		r.Max.X = clamp(r.Min.X+h, 0, width)
	} else if h < w {
		r.Min.Y = clamp(r.Min.Y-(w-h)/2, 0, height)
		r.Max.Y = clamp(r.Min.Y+w, 0, height)
	}

	// Both axes can be pinned against edges; trim the longer one centered on
	// its current span so the result is an exact square.
	w, h = r.Dx(), r.Dy()
	if w < h {
		r.Min.Y += (h - w) / 2
		r.Max.Y = r.Min.Y + w
	} else if h < w {
		r.Min.X += (w - h) / 2
		r.Max.X = r.Min.X + h
	}
	return r
}

// largestFace selects the box with the largest area, keeping the first on ties.
func largestFace(faces []image.Rectangle) image.Rectangle {
	best := faces[0]
	bestArea := best.Dx() * best.Dy()
	for _, f := range faces[1:] {
		if area := f.Dx() * f.Dy(); area > bestArea {
			best = f
			bestArea = area
		}
	}
	return best
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
