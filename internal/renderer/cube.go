package renderer

// cubeVertices is a unit cube centred on the origin: 36 vertices of
// position (xyz) followed by face normal (xyz).
var cubeVertices = buildCube()

const cubeStride = 6

func buildCube() []float32 {
	faces := []struct {
		normal  [3]float32
		corners [4][3]float32
	}{
		{[3]float32{0, 0, 1}, [4][3]float32{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}},
	}

	out := make([]float32, 0, 36*cubeStride)
	for _, f := range faces {
		for _, i := range []int{0, 1, 2, 0, 2, 3} {
			c := f.corners[i]
			out = append(out, c[0]*0.5, c[1]*0.5, c[2]*0.5, f.normal[0], f.normal[1], f.normal[2])
		}
	}
	return out
}
