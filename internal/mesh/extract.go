package mesh

import (
	"collide3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// TrianglesFromIndexed builds world-space triangles from a packed xyz position buffer.
// With nil indices every three vertices form a triangle. Triangles referencing
// vertices past the end of the buffer are skipped.
func TrianglesFromIndexed(vertices []float32, indices []uint32, transform rl.Matrix) []physics.Triangle {
	vertexCount := uint32(len(vertices) / 3)
	vertex := func(i uint32) rl.Vector3 {
		v := rl.Vector3{X: vertices[i*3+0], Y: vertices[i*3+1], Z: vertices[i*3+2]}
		return rl.Vector3Transform(v, transform)
	}

	if indices == nil {
		triangles := make([]physics.Triangle, 0, vertexCount/3)
		for i := uint32(0); i+2 < vertexCount; i += 3 {
			triangles = append(triangles, physics.Triangle{V0: vertex(i), V1: vertex(i + 1), V2: vertex(i + 2)})
		}
		return triangles
	}

	triangles := make([]physics.Triangle, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if i0 >= vertexCount || i1 >= vertexCount || i2 >= vertexCount {
			continue
		}
		triangles = append(triangles, physics.Triangle{V0: vertex(i0), V1: vertex(i1), V2: vertex(i2)})
	}
	return triangles
}

// ModelTransform builds the scale, then rotation (degrees, X then Y then Z), then
// translation matrix used to place static meshes.
func ModelTransform(position, rotation, scale rl.Vector3) rl.Matrix {
	scaleMatrix := rl.MatrixScale(scale.X, scale.Y, scale.Z)
	rotX := rl.MatrixRotateX(rotation.X * rl.Deg2rad)
	rotY := rl.MatrixRotateY(rotation.Y * rl.Deg2rad)
	rotZ := rl.MatrixRotateZ(rotation.Z * rl.Deg2rad)
	rotMatrix := rl.MatrixMultiply(rl.MatrixMultiply(rotX, rotY), rotZ)
	transMatrix := rl.MatrixTranslate(position.X, position.Y, position.Z)
	return rl.MatrixMultiply(rl.MatrixMultiply(scaleMatrix, rotMatrix), transMatrix)
}
