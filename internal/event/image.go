package event

// Image is a dense row-major W x H grid of samples of type T. It replaces
// cv::Mat for the small set of pixel-indexed surfaces the core needs: the
// SAE's two polarity planes, decay/raw time surfaces, and the per-frame
// active/time images handed to the circle extractor.
type Image[T any] struct {
	W, H int
	Data []T
}

// NewImage allocates a W x H image filled with the zero value of T.
func NewImage[T any](w, h int) Image[T] {
	return Image[T]{W: w, H: h, Data: make([]T, w*h)}
}

// NewImageFilled allocates a W x H image filled with fill.
func NewImageFilled[T any](w, h int, fill T) Image[T] {
	img := NewImage[T](w, h)
	for i := range img.Data {
		img.Data[i] = fill
	}
	return img
}

// InBounds reports whether (x, y) lies inside the image.
func (img Image[T]) InBounds(x, y int) bool {
	return x >= 0 && x < img.W && y >= 0 && y < img.H
}

// At returns the sample at (x, y). Callers must check InBounds first; At
// panics on out-of-range indices like a plain slice index would.
func (img Image[T]) At(x, y int) T {
	return img.Data[y*img.W+x]
}

// Set writes value at (x, y).
func (img Image[T]) Set(x, y int, value T) {
	img.Data[y*img.W+x] = value
}
