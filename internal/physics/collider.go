package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Kind identifies a collider variant
type Kind uint8

const (
	KindNone Kind = iota
	KindRay
	KindSphere
	KindCapsule
	KindOrientedBox
	KindAxisAlignedBox
	KindTerrain
)

func (k Kind) String() string {
	switch k {
	case KindRay:
		return "Ray"
	case KindSphere:
		return "Sphere"
	case KindCapsule:
		return "Capsule"
	case KindOrientedBox:
		return "OrientedBox"
	case KindAxisAlignedBox:
		return "AxisAlignedBox"
	case KindTerrain:
		return "Terrain"
	default:
		return "None"
	}
}

// Tag is a bitmask of collider flags
type Tag uint8

const (
	// TagStatic marks colliders that never move; static-static pairs are never tested.
	TagStatic Tag = 1 << iota
	// TagSkipTerrain excludes the collider from every terrain pair.
	TagSkipTerrain
	TagUser0
	TagUser1
	TagUser2
	TagUser3
	TagUser4
	TagUser5
)

// Collider is one of *RayCollider, *Sphere, *Capsule, *OrientedBox,
// *AxisAlignedBox or *Terrain. A nil Collider is the placeholder variant.
type Collider interface {
	Kind() Kind

	SetTag(tag Tag)
	RemoveTag(tag Tag)
	HasTag(tag Tag) bool
	Tags() Tag

	SetActive(active bool)
	Active() bool
	Dirty() bool

	Min() rl.Vector3
	Max() rl.Vector3
	Bounds() AABB

	base() *Base
}

// Base holds the state shared by every collider variant.
type Base struct {
	tags   Tag
	active bool
	dirty  bool
	bounds AABB
}

func newBase() Base {
	return Base{active: true, dirty: true}
}

func (b *Base) base() *Base { return b }

func (b *Base) SetTag(tag Tag)      { b.tags |= tag }
func (b *Base) RemoveTag(tag Tag)   { b.tags &^= tag }
func (b *Base) HasTag(tag Tag) bool { return b.tags&tag != 0 }
func (b *Base) Tags() Tag           { return b.tags }

func (b *Base) SetActive(active bool) { b.active = active }
func (b *Base) Active() bool          { return b.active }

// Dirty is true from construction until the collider is written by a transform
func (b *Base) Dirty() bool { return b.dirty }

// Min returns the cached world AABB minimum. Only meaningful when not dirty.
func (b *Base) Min() rl.Vector3 { return b.bounds.Min }

// Max returns the cached world AABB maximum. Only meaningful when not dirty.
func (b *Base) Max() rl.Vector3 { return b.bounds.Max }

func (b *Base) Bounds() AABB { return b.bounds }

// settle copies the flags of src and marks the destination clean
func (b *Base) settle(src *Base, bounds AABB) {
	b.tags = src.tags
	b.active = src.active
	b.bounds = bounds
	b.dirty = false
}

// RayCollider wraps a Ray so it can take part in intersection tests.
type RayCollider struct {
	Base
	Ray
}

// NewRayCollider normalizes the direction like NewRay; a zero direction becomes +Z.
func NewRayCollider(r Ray) *RayCollider {
	r.Direction = normalizeOr(r.Direction, rl.Vector3{Z: 1})
	c := &RayCollider{Base: newBase(), Ray: r}
	c.bounds = rayBounds(r)
	return c
}

func (c *RayCollider) Kind() Kind { return KindRay }

func (c *RayCollider) Clone() *RayCollider {
	out := *c
	return &out
}

// TransformInto writes the transformed ray into dst
func (c *RayCollider) TransformInto(m rl.Matrix, dst *RayCollider) {
	dst.Ray = c.Ray.Transform(m)
	dst.settle(&c.Base, rayBounds(dst.Ray))
}

func rayBounds(r Ray) AABB {
	reach := r.Length
	if r.IsInfinite() {
		reach = InfiniteLength
	}
	end := r.At(reach)
	return AABB{Min: vmin(r.Origin, end), Max: vmax(r.Origin, end)}
}

// Sphere collider. Radius scaling assumes uniform scale: a non-uniform
// transform over-estimates the radius using the largest axis.
type Sphere struct {
	Base
	Center rl.Vector3
	Radius float32
}

func NewSphere(center rl.Vector3, radius float32) *Sphere {
	s := &Sphere{Base: newBase(), Center: center, Radius: absf(radius)}
	s.bounds = s.computeBounds()
	return s
}

func (s *Sphere) Kind() Kind { return KindSphere }

func (s *Sphere) Clone() *Sphere {
	out := *s
	return &out
}

func (s *Sphere) computeBounds() AABB {
	r := rl.Vector3{X: s.Radius, Y: s.Radius, Z: s.Radius}
	return NewAABBFromHalf(s.Center, r)
}

func (s *Sphere) TransformInto(m rl.Matrix, dst *Sphere) {
	scale := axisScales(m)
	dst.Center = transformPoint(s.Center, m)
	dst.Radius = s.Radius * maxf(maxf(scale.X, scale.Y), scale.Z)
	dst.settle(&s.Base, dst.computeBounds())
}

// Capsule collider: a segment along Up swept by Radius. Height is tip to tip.
type Capsule struct {
	Base
	Center rl.Vector3
	Up     rl.Vector3
	Radius float32
	Height float32
}

// NewCapsule clamps the radius so that two caps fit inside the height.
func NewCapsule(center, up rl.Vector3, radius, height float32) *Capsule {
	c := &Capsule{
		Base:   newBase(),
		Center: center,
		Up:     normalizeOr(up, rl.Vector3{Y: 1}),
		Radius: absf(radius),
		Height: absf(height),
	}
	c.clampRadius()
	c.bounds = c.computeBounds()
	return c
}

func (c *Capsule) Kind() Kind { return KindCapsule }

func (c *Capsule) Clone() *Capsule {
	out := *c
	return &out
}

func (c *Capsule) clampRadius() {
	if c.Radius*2 > c.Height {
		c.Radius = c.Height / 2
	}
}

// Segment returns the end points of the capsule's core segment
func (c *Capsule) Segment() (rl.Vector3, rl.Vector3) {
	half := c.Height/2 - c.Radius
	if half < 0 {
		half = 0
	}
	offset := rl.Vector3Scale(c.Up, half)
	return rl.Vector3Subtract(c.Center, offset), rl.Vector3Add(c.Center, offset)
}

// computeBounds boxes both hemisphere centers; conservative for tilted capsules
func (c *Capsule) computeBounds() AABB {
	a, b := c.Segment()
	r := rl.Vector3{X: c.Radius, Y: c.Radius, Z: c.Radius}
	return AABB{
		Min: rl.Vector3Subtract(vmin(a, b), r),
		Max: rl.Vector3Add(vmax(a, b), r),
	}
}

// TransformInto scales the radius by the larger horizontal axis and the height by the Y axis.
func (c *Capsule) TransformInto(m rl.Matrix, dst *Capsule) {
	scale := axisScales(m)
	dst.Center = transformPoint(c.Center, m)
	dst.Up = normalizeOr(transformDirection(c.Up, m), c.Up)
	dst.Radius = c.Radius * maxf(scale.X, scale.Z)
	dst.Height = c.Height * scale.Y
	dst.clampRadius()
	dst.settle(&c.Base, dst.computeBounds())
}

// OrientedBox collider
type OrientedBox struct {
	Base
	OBB
}

// NewOrientedBox re-orthonormalizes the given axes.
func NewOrientedBox(center, halfSize rl.Vector3, axes [3]rl.Vector3) *OrientedBox {
	o := &OrientedBox{
		Base: newBase(),
		OBB:  OBB{Center: center, HalfSize: absVec(halfSize), Axes: orthonormalize(axes)},
	}
	o.bounds = o.OBB.Bounds()
	return o
}

// NewOrientedBoxEuler builds a box from full size and euler rotation in degrees
func NewOrientedBoxEuler(center, size, rotation rl.Vector3) *OrientedBox {
	obb := NewOBB(center, size, rotation)
	return NewOrientedBox(obb.Center, obb.HalfSize, obb.Axes)
}

func (o *OrientedBox) Kind() Kind { return KindOrientedBox }

// Bounds returns the cached world AABB (not the OBB's own computation)
func (o *OrientedBox) Bounds() AABB { return o.Base.Bounds() }

func (o *OrientedBox) Clone() *OrientedBox {
	out := *o
	return &out
}

func (o *OrientedBox) TransformInto(m rl.Matrix, dst *OrientedBox) {
	var axes [3]rl.Vector3
	half := o.HalfSize
	for i := 0; i < 3; i++ {
		v := transformDirection(o.Axes[i], m)
		l := rl.Vector3Length(v)
		axes[i] = v
		switch i {
		case 0:
			half.X *= l
		case 1:
			half.Y *= l
		default:
			half.Z *= l
		}
	}

	dst.Center = transformPoint(o.Center, m)
	dst.HalfSize = half
	dst.Axes = orthonormalize(axes)

	bounds := EmptyAABB()
	for _, p := range dst.Corners() {
		bounds.Min = vmin(bounds.Min, p)
		bounds.Max = vmax(bounds.Max, p)
	}
	dst.settle(&o.Base, bounds)
}

// AxisAlignedBox collider. It stays axis aligned under rotation by re-projecting its extents.
type AxisAlignedBox struct {
	Base
	Center   rl.Vector3
	HalfSize rl.Vector3
}

func NewAxisAlignedBox(center, halfSize rl.Vector3) *AxisAlignedBox {
	b := &AxisAlignedBox{Base: newBase(), Center: center, HalfSize: absVec(halfSize)}
	b.bounds = NewAABBFromHalf(b.Center, b.HalfSize)
	return b
}

func (b *AxisAlignedBox) Kind() Kind { return KindAxisAlignedBox }

func (b *AxisAlignedBox) Clone() *AxisAlignedBox {
	out := *b
	return &out
}

func (b *AxisAlignedBox) OBB() OBB {
	return NewAABBasOBB(b.Center, b.HalfSize)
}

func (b *AxisAlignedBox) AABB() AABB {
	return NewAABBFromHalf(b.Center, b.HalfSize)
}

func (b *AxisAlignedBox) TransformInto(m rl.Matrix, dst *AxisAlignedBox) {
	dst.Center = transformPoint(b.Center, m)
	dst.HalfSize = reprojectHalf(b.HalfSize, m)
	dst.settle(&b.Base, NewAABBFromHalf(dst.Center, dst.HalfSize))
}

// reprojectHalf sums, per world axis, the projection of each scaled box axis
// times its half extent, so a rotated box is re-enclosed without becoming oriented.
func reprojectHalf(half rl.Vector3, m rl.Matrix) rl.Vector3 {
	axes := basisAxes(m)
	var out rl.Vector3
	for i := 0; i < 3; i++ {
		h := component(half, i)
		out.X += absf(axes[i].X) * h
		out.Y += absf(axes[i].Y) * h
		out.Z += absf(axes[i].Z) * h
	}
	return out
}

func absVec(v rl.Vector3) rl.Vector3 {
	return rl.Vector3{X: absf(v.X), Y: absf(v.Y), Z: absf(v.Z)}
}

// Transform writes src transformed by m into dst. It does nothing when either
// is nil or the variants differ; callers are expected to pair matching variants.
func Transform(src Collider, m rl.Matrix, dst Collider) {
	if src == nil || dst == nil || src.Kind() != dst.Kind() {
		return
	}

	switch s := src.(type) {
	case *RayCollider:
		if d := dst.(*RayCollider); s != nil && d != nil {
			s.TransformInto(m, d)
		}
	case *Sphere:
		if d := dst.(*Sphere); s != nil && d != nil {
			s.TransformInto(m, d)
		}
	case *Capsule:
		if d := dst.(*Capsule); s != nil && d != nil {
			s.TransformInto(m, d)
		}
	case *OrientedBox:
		if d := dst.(*OrientedBox); s != nil && d != nil {
			s.TransformInto(m, d)
		}
	case *AxisAlignedBox:
		if d := dst.(*AxisAlignedBox); s != nil && d != nil {
			s.TransformInto(m, d)
		}
	case *Terrain:
		if d := dst.(*Terrain); s != nil && d != nil {
			s.TransformInto(m, d)
		}
	}
}
