package strip

import "image"

// Wrap folds any index into [0, n).
func Wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Buffer is a fixed-length circular run of pixels. Every index is wrapped,
// so no access can land outside [0, Len()).
type Buffer struct {
	px []Color
}

func NewBuffer(n int) *Buffer {
	if n < 1 {
		n = 1
	}
	b := &Buffer{px: make([]Color, n)}
	b.Fill(Background)
	return b
}

func (b *Buffer) Len() int { return len(b.px) }

func (b *Buffer) At(i int) Color { return b.px[Wrap(i, len(b.px))] }

func (b *Buffer) Set(i int, c Color) { b.px[Wrap(i, len(b.px))] = c }

func (b *Buffer) Fill(c Color) {
	for i := range b.px {
		b.px[i] = c
	}
}

// Reverse mirrors the buffer in place.
func (b *Buffer) Reverse() {
	for i, j := 0, len(b.px)-1; i < j; i, j = i+1, j-1 {
		b.px[i], b.px[j] = b.px[j], b.px[i]
	}
}

// Pixels returns a copy of the buffer contents.
func (b *Buffer) Pixels() []Color {
	out := make([]Color, len(b.px))
	copy(out, b.px)
	return out
}

// Image renders the buffer as a single 1xN row.
func (b *Buffer) Image() *image.NRGBA {
	return Image(b.px)
}

func Image(px []Color) *image.NRGBA {
	im := image.NewNRGBA(image.Rect(0, 0, len(px), 1))
	for x := 0; x < im.Rect.Max.X; x++ {
		im.SetNRGBA(x, 0, px[x].NRGBA())
	}
	return im
}
