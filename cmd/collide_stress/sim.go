package main

import (
	"math"
	"math/rand"
	"time"

	"collide3d/internal/config"
	"collide3d/internal/contact"
	"collide3d/internal/debug"
	"collide3d/internal/mesh"
	"collide3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/stat"
)

const (
	dt          = float32(1.0 / 60.0)
	ceiling     = float32(14)
	wallCells   = 16
	heightScale = float32(4)
)

// Owner is the stable key a collider is tracked under
type Owner struct {
	ID int
}

// Body is the kinematic state driving a collider's transform. Rotation and Spin are degrees.
type Body struct {
	Position rl.Vector3
	Velocity rl.Vector3
	Rotation rl.Vector3
	Spin     rl.Vector3
	Static   bool
}

// Shape holds a collider in local space and the world-space copy it is transformed into every tick
type Shape struct {
	Local physics.Collider
	World physics.Collider
}

type simulation struct {
	cfg *config.Config
	rng *rand.Rand

	world  *ecs.World
	mapper *ecs.Map3[Owner, Body, Shape]
	filter *ecs.Filter3[Owner, Body, Shape]

	// World colliders indexed by owner ID
	colliders []physics.Collider
	terrain   *physics.Terrain
	walls     *physics.Terrain
	tree      *mesh.Tree

	grid      *contact.Grid[int]
	tracker   *contact.Tracker[int]
	listeners contact.Listeners[int]

	tick         int
	enters       int
	exits        int
	totalHits    int
	meshContacts int
	tickTimes    []float64
}

func newSimulation(cfg *config.Config) *simulation {
	world := ecs.NewWorld()
	s := &simulation{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(cfg.Stress.Seed)),
		world:   world,
		mapper:  ecs.NewMap3[Owner, Body, Shape](world),
		filter:  ecs.NewFilter3[Owner, Body, Shape](world),
		grid:    contact.NewGrid[int](cfg.Broadphase.CellSize),
		tracker: contact.NewTracker[int](),
	}

	s.listeners.OnEnter.AddListener(func(contact.Contact[int]) { s.enters++ })
	s.listeners.OnExit.AddListener(func(contact.Contact[int]) { s.exits++ })

	half := cfg.Stress.ArenaSize / 2
	ground := newProfile(cfg.Stress.Seed)
	s.terrain = buildHeightfield(cfg, ground, half)
	s.walls = buildWalls(s.rng, half)
	s.spawn(Body{Static: true}, s.terrain, s.terrain.Clone())
	s.spawn(Body{Static: true}, s.walls, s.walls.Clone())

	for i := 0; i < cfg.Stress.Colliders; i++ {
		local, world := s.randomShape(i)
		body := Body{
			Position: rl.Vector3{
				X: (s.rng.Float32()*2 - 1) * half * 0.9,
				Y: heightScale + 1 + s.rng.Float32()*(ceiling-heightScale-2),
				Z: (s.rng.Float32()*2 - 1) * half * 0.9,
			},
			Velocity: s.randomVector(cfg.Stress.Speed),
			Spin:     s.randomVector(90),
		}
		s.spawn(body, local, world)
	}

	s.tree = mesh.Bake(buildMesh(cfg, ground, half), cfg.Octree.Options())
	s.syncColliders(0)
	return s
}

func (s *simulation) spawn(body Body, local, world physics.Collider) {
	owner := Owner{ID: len(s.colliders)}
	shape := Shape{Local: local, World: world}
	if body.Static {
		local.SetTag(physics.TagStatic)
	}
	s.colliders = append(s.colliders, world)
	s.mapper.NewEntity(&owner, &body, &shape)
}

func (s *simulation) randomVector(scale float32) rl.Vector3 {
	return rl.Vector3{
		X: (s.rng.Float32()*2 - 1) * scale,
		Y: (s.rng.Float32()*2 - 1) * scale * 0.25,
		Z: (s.rng.Float32()*2 - 1) * scale,
	}
}

// randomShape returns a local collider centered on the origin and a world buffer of the same variant
func (s *simulation) randomShape(i int) (physics.Collider, physics.Collider) {
	size := 0.3 + s.rng.Float32()*0.9
	switch i % 6 {
	case 0:
		c := physics.NewSphere(rl.Vector3{}, size)
		return c, c.Clone()
	case 1:
		c := physics.NewCapsule(rl.Vector3{}, rl.Vector3{Y: 1}, size*0.5, size*3)
		return c, c.Clone()
	case 2:
		half := rl.Vector3{X: size, Y: size * 0.6, Z: size * 0.8}
		c := physics.NewOrientedBox(rl.Vector3{}, half, [3]rl.Vector3{{X: 1}, {Y: 1}, {Z: 1}})
		return c, c.Clone()
	case 3:
		c := physics.NewAxisAlignedBox(rl.Vector3{}, rl.Vector3{X: size, Y: size, Z: size})
		return c, c.Clone()
	case 4:
		// Short probe looking down and ahead
		c := physics.NewRayCollider(physics.NewRay(rl.Vector3{}, rl.Vector3{X: 0.3, Y: -1}, 4))
		return c, c.Clone()
	default:
		c := physics.NewSphere(rl.Vector3{}, size)
		c.SetTag(physics.TagSkipTerrain)
		return c, c.Clone()
	}
}

// syncColliders integrates every body, transforms its collider and refills the broad phase
func (s *simulation) syncColliders(step float32) int {
	half := s.cfg.Stress.ArenaSize / 2
	contacts := 0
	one := rl.Vector3{X: 1, Y: 1, Z: 1}
	identity := rl.MatrixIdentity()

	s.grid.Reset()
	query := s.filter.Query()
	for query.Next() {
		owner, body, shape := query.Get()

		if body.Static {
			physics.Transform(shape.Local, identity, shape.World)
			s.grid.Insert(owner.ID, shape.World.Bounds())
			continue
		}

		body.Position = rl.Vector3Add(body.Position, rl.Vector3Scale(body.Velocity, step))
		body.Rotation = rl.Vector3Add(body.Rotation, rl.Vector3Scale(body.Spin, step))
		bounce(&body.Position.X, &body.Velocity.X, -half, half)
		bounce(&body.Position.Y, &body.Velocity.Y, 0, ceiling)
		bounce(&body.Position.Z, &body.Velocity.Z, -half, half)

		m := mesh.ModelTransform(body.Position, body.Rotation, one)
		physics.Transform(shape.Local, m, shape.World)

		if sphere, ok := shape.World.(*physics.Sphere); ok {
			if hit, push := s.tree.SphereIntersect(sphere.Center, sphere.Radius); hit {
				body.Position = rl.Vector3Add(body.Position, push)
				contacts++
			}
		}

		s.grid.Insert(owner.ID, shape.World.Bounds())
	}
	return contacts
}

func bounce(pos, vel *float32, lo, hi float32) {
	if *pos < lo {
		*pos = lo
		*vel = float32(math.Abs(float64(*vel)))
	} else if *pos > hi {
		*pos = hi
		*vel = -float32(math.Abs(float64(*vel)))
	}
}

// step runs one tick: integrate, transform, broad phase, narrow phase, contact tracking
func (s *simulation) step() debug.TickStats {
	start := time.Now()
	s.tick++

	meshContacts := s.syncColliders(dt)
	s.meshContacts += meshContacts
	pairs := s.grid.Pairs()

	s.tracker.Begin()
	hits := 0
	var maxDepth float32
	for _, p := range pairs {
		a, b := s.colliders[p.A], s.colliders[p.B]
		data, ok := physics.CheckIntersection(a, b)
		if !ok {
			continue
		}
		hits++
		if a.Kind() != physics.KindRay && b.Kind() != physics.KindRay && data.Depth > maxDepth {
			maxDepth = data.Depth
		}
		s.tracker.Record(p.A, p.B, data)
	}

	contacts := s.tracker.End()
	enters, exits := s.enters, s.exits
	s.listeners.Dispatch(contacts)

	elapsed := time.Since(start)
	s.totalHits += hits
	s.tickTimes = append(s.tickTimes, float64(elapsed.Microseconds()))

	return debug.TickStats{
		Tick:         s.tick,
		Candidates:   len(pairs),
		Hits:         hits,
		Enters:       s.enters - enters,
		Exits:        s.exits - exits,
		MeshContacts: meshContacts,
		TickUS:       elapsed.Microseconds(),
		MaxDepth:     maxDepth,
	}
}

// verifyBroadphase counts intersecting pairs that the spatial hash failed to report
func (s *simulation) verifyBroadphase() int {
	candidates := make(map[contact.Pair[int]]bool)
	for _, p := range s.grid.Pairs() {
		candidates[p] = true
	}

	missing := 0
	for i := range s.colliders {
		for j := i + 1; j < len(s.colliders); j++ {
			if _, ok := physics.CheckIntersection(s.colliders[i], s.colliders[j]); !ok {
				continue
			}
			if !candidates[contact.Pair[int]{A: i, B: j}] {
				missing++
			}
		}
	}
	return missing
}

func (s *simulation) summary() []any {
	mean, std := stat.MeanStdDev(s.tickTimes, nil)
	return []any{
		"ticks", s.tick,
		"mean_tick_us", mean,
		"std_tick_us", std,
		"hits", s.totalHits,
		"enters", s.enters,
		"exits", s.exits,
		"touching", s.tracker.Active(),
		"mesh_contacts", s.meshContacts,
	}
}

// benchmarkRays casts the same random rays through the octree and a linear scan and
// counts disagreements. Each ray also probes the heightfield and the moving shapes.
func (s *simulation) benchmarkRays() debug.RaySummary {
	half := s.cfg.Stress.ArenaSize / 2
	summary := debug.RaySummary{
		Rays:       s.cfg.Stress.Rays,
		TreeNodes:  s.tree.NodeCount(),
		TreeLeaves: s.tree.LeafCount(),
		TreeDepth:  s.tree.Depth(),
	}
	treeTimes := make([]float64, 0, summary.Rays)
	linearTimes := make([]float64, 0, summary.Rays)

	for i := 0; i < summary.Rays; i++ {
		origin := rl.Vector3{
			X: (s.rng.Float32()*2 - 1) * half,
			Y: ceiling + 6,
			Z: (s.rng.Float32()*2 - 1) * half,
		}
		dir := rl.Vector3{X: s.rng.Float32() - 0.5, Y: -1, Z: s.rng.Float32() - 0.5}
		ray := physics.NewRay(origin, dir, 0)

		start := time.Now()
		treeHit, treeOK := s.tree.Raycast(ray)
		treeTimes = append(treeTimes, float64(time.Since(start).Nanoseconds())/1000)

		start = time.Now()
		linearHit, _, linearOK := mesh.RaycastTriangles(s.tree.Triangles(), ray)
		linearTimes = append(linearTimes, float64(time.Since(start).Nanoseconds())/1000)

		if treeOK {
			summary.Hits++
		}
		if treeOK != linearOK || (treeOK && math.Abs(float64(treeHit.Length-linearHit.Length)) > 1e-3) {
			summary.Mismatches++
		}

		if _, ok := physics.Raycast(ray, s.terrain); ok {
			summary.TerrainHits++
		}
		// The first two owners are the static terrains
		if _, _, ok := physics.RaycastAll(ray, s.colliders[2:]); ok {
			summary.ShapeHits++
		}
	}

	summary.TreeMeanUS, summary.TreeStdUS = stat.MeanStdDev(treeTimes, nil)
	summary.LinearMeanUS, summary.LinearStdUS = stat.MeanStdDev(linearTimes, nil)
	return summary
}

// draw records the octree's upper levels, the wall grid, a patch of the heightfield and every collider
func (s *simulation) draw(sink physics.DebugSink) {
	s.tree.Draw(sink, 3)
	s.walls.DrawSamples(s.walls.Bounds(), sink)
	patch := physics.NewAABBFromHalf(rl.Vector3{}, rl.Vector3{X: 4, Y: 100, Z: 4})
	s.terrain.DrawSamples(patch, sink)
	for _, c := range s.colliders {
		physics.DrawCollider(c, sink)
	}
}
