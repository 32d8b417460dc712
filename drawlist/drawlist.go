// Package drawlist implements the shared vertex/index/draw-call buffers the
// cache emits, the quad and filled-path geometry emitters, and the
// draw-list merge and optimize passes.
package drawlist

// Pass identifies one of the four logical render steps a draw call belongs
// to. Order within the draw list is causal: see List's doc comment.
type Pass uint32

const (
	PassRasterizeGlyph    Pass = 1
	PassBlitAtlas         Pass = 2
	PassCompositeCached   Pass = 3
	PassCompositeUncached Pass = 4
)

// RegionTag is interpreted by the atlas-blit shader for PassBlitAtlas draw
// calls: 0–2 select a downsample-and-fill of a specific region's slot,
// while RegionClear marks a clear-fill instead.
type RegionTag uint32

const RegionClear RegionTag = 1<<32 - 1

// Vertex is the shared vertex layout: a 2D position and a 2D UV coordinate.
type Vertex struct {
	X, Y float32
	U, V float32
}

// Colour is a linear RGBA colour, each channel in [0, 1].
type Colour struct {
	R, G, B, A float32
}

// DrawCall describes one contiguous run of triangles within the shared
// index buffer, tagged with the pass it belongs to.
type DrawCall struct {
	Pass            Pass
	StartIndex      uint32
	EndIndex        uint32
	ClearBeforeDraw bool
	Region          RegionTag
	Colour          Colour
}

// List holds the three parallel sequences that make up a draw list:
// vertices, 32-bit indices, and draw calls. Pass ordering within DrawCalls
// is causal — every PassCompositeCached/Uncached draw call that references
// an atlas slot must appear after any PassRasterizeGlyph/PassBlitAtlas pair
// that produced that slot's contents this frame; slots already resident at
// frame start need no such pair.
type List struct {
	Vertices  []Vertex
	Indices   []uint32
	DrawCalls []DrawCall
}

// New returns an empty draw list.
func New() *List {
	return &List{}
}

// Reset clears all three sequences for reuse, keeping the underlying
// storage so the next frame does not need to reallocate.
func (l *List) Reset() {
	l.Vertices = l.Vertices[:0]
	l.Indices = l.Indices[:0]
	l.DrawCalls = l.DrawCalls[:0]
}

// EmitQuad appends 4 vertices and 6 indices describing an axis-aligned
// rectangle at (x0, y0)-(x1, y1) with UV corners (u0, v0)-(u1, v1), then
// appends a draw call covering exactly that index range. It returns the
// draw call's index within DrawCalls.
func (l *List) EmitQuad(x0, y0, x1, y1, u0, v0, u1, v1 float32, pass Pass, region RegionTag, colour Colour, clearBeforeDraw bool) int {
	base := uint32(len(l.Vertices))
	l.Vertices = append(l.Vertices,
		Vertex{X: x0, Y: y0, U: u0, V: v0},
		Vertex{X: x1, Y: y0, U: u1, V: v0},
		Vertex{X: x1, Y: y1, U: u1, V: v1},
		Vertex{X: x0, Y: y1, U: u0, V: v1},
	)
	start := uint32(len(l.Indices))
	l.Indices = append(l.Indices,
		base+0, base+1, base+2,
		base+2, base+3, base+0,
	)
	end := uint32(len(l.Indices))
	l.DrawCalls = append(l.DrawCalls, DrawCall{
		Pass:            pass,
		StartIndex:      start,
		EndIndex:        end,
		ClearBeforeDraw: clearBeforeDraw,
		Region:          region,
		Colour:          colour,
	})
	return len(l.DrawCalls) - 1
}

// EmitEmptyMarker appends a draw call with an empty index range and
// clear_before_draw set. The backend interprets this as "clear the scratch
// texture before its next use" even though the draw call itself covers no
// triangles — a documented contract the scratch-clear marker depends on.
func (l *List) EmitEmptyMarker(pass Pass) {
	idx := uint32(len(l.Indices))
	l.DrawCalls = append(l.DrawCalls, DrawCall{
		Pass:            pass,
		StartIndex:      idx,
		EndIndex:        idx,
		ClearBeforeDraw: true,
	})
}

// EmitFilledPath triangle-fans a contour from a fixed outside point,
// emitting (outside, pᵢ, pᵢ₊₁) for each consecutive pair of contour points.
// Relying on XOR-blended compositing of pass-1 geometry, this yields exact
// coverage for arbitrary (including self-overlapping) contours. scale and
// translate are applied to every vertex, including the outside point.
func (l *List) EmitFilledPath(contour []Vertex, outsideX, outsideY float32, scaleX, scaleY, translateX, translateY float32, pass Pass) {
	if len(contour) < 2 {
		return
	}
	tx := func(x, y float32) (float32, float32) {
		return x*scaleX + translateX, y*scaleY + translateY
	}
	ox, oy := tx(outsideX, outsideY)

	start := uint32(len(l.Indices))
	for i := 0; i < len(contour)-1; i++ {
		p0x, p0y := tx(contour[i].X, contour[i].Y)
		p1x, p1y := tx(contour[i+1].X, contour[i+1].Y)

		base := uint32(len(l.Vertices))
		l.Vertices = append(l.Vertices,
			Vertex{X: ox, Y: oy},
			Vertex{X: p0x, Y: p0y},
			Vertex{X: p1x, Y: p1y},
		)
		l.Indices = append(l.Indices, base+0, base+1, base+2)
	}
	end := uint32(len(l.Indices))
	if end == start {
		return
	}
	l.DrawCalls = append(l.DrawCalls, DrawCall{
		Pass:       pass,
		StartIndex: start,
		EndIndex:   end,
	})
}

// Merge appends other's vertices, indices, and draw calls onto l, rebasing
// other's indices by l's current vertex count and other's draw-call index
// ranges by l's current index count. other is left untouched; callers that
// want to clear it (e.g. the glyph-update batch flushing its intermediate
// lists into the main list) call Reset separately.
func (l *List) Merge(other *List) {
	vertexBase := uint32(len(l.Vertices))
	indexBase := uint32(len(l.Indices))

	l.Vertices = append(l.Vertices, other.Vertices...)

	for _, idx := range other.Indices {
		l.Indices = append(l.Indices, idx+vertexBase)
	}

	for _, dc := range other.DrawCalls {
		dc.StartIndex += indexBase
		dc.EndIndex += indexBase
		l.DrawCalls = append(l.DrawCalls, dc)
	}
}

// Optimize merges adjacent draw calls in a single left-to-right pass when
// pass, region, colour, and clear_before_draw all match and the left call's
// EndIndex equals the right call's StartIndex (a contiguous index range).
// A merged call has ClearBeforeDraw == false on both sides, since a clear
// marker must remain its own draw call.
func (l *List) Optimize() {
	if len(l.DrawCalls) < 2 {
		return
	}
	write := 0
	for read := 1; read < len(l.DrawCalls); read++ {
		cur := l.DrawCalls[read]
		prev := &l.DrawCalls[write]
		if canMerge(*prev, cur) {
			prev.EndIndex = cur.EndIndex
			continue
		}
		write++
		l.DrawCalls[write] = cur
	}
	l.DrawCalls = l.DrawCalls[:write+1]
}

func canMerge(a, b DrawCall) bool {
	return !a.ClearBeforeDraw && !b.ClearBeforeDraw &&
		a.Pass == b.Pass &&
		a.Region == b.Region &&
		a.Colour == b.Colour &&
		a.EndIndex == b.StartIndex
}
