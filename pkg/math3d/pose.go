package math3d

// Pose is a 3x4 camera-to-world transform stored row-major:
//
// | R00 R01 R02 Tx |
// | R10 R11 R12 Ty |
// | R20 R21 R22 Tz |
//
// The 3x3 block is the rotation taking camera-space directions to world
// space; the last column is the camera centre in world coordinates. The
// rotation is assumed orthonormal and is not validated.
type Pose [3][4]float64

// IdentityPose returns a camera at the world origin looking down -Z.
func IdentityPose() Pose {
	return Pose{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
	}
}

// NewPose builds a pose from the rotation block of r and a translation.
func NewPose(r Mat4, t Vec3) Pose {
	p := PoseFromMat4(r)
	p[0][3], p[1][3], p[2][3] = t.X, t.Y, t.Z
	return p
}

// PoseFromMat4 drops the bottom row of an affine transform.
func PoseFromMat4(m Mat4) Pose {
	var p Pose
	for col := range 4 {
		c := m.Column(col)
		p[0][col], p[1][col], p[2][col] = c.X, c.Y, c.Z
	}
	return p
}

// Mat4 returns the pose as a column-major affine matrix.
func (p Pose) Mat4() Mat4 {
	m := Identity()
	for row := range 3 {
		for col := range 4 {
			m[row+col*4] = p[row][col]
		}
	}
	return m
}

// Rotate applies the rotation block: R · v.
func (p Pose) Rotate(v Vec3) Vec3 {
	return Vec3{
		p[0][0]*v.X + p[0][1]*v.Y + p[0][2]*v.Z,
		p[1][0]*v.X + p[1][1]*v.Y + p[1][2]*v.Z,
		p[2][0]*v.X + p[2][1]*v.Y + p[2][2]*v.Z,
	}
}

// Translation returns the translation column.
func (p Pose) Translation() Vec3 {
	return Vec3{p[0][3], p[1][3], p[2][3]}
}

// Apply transforms a camera-space point into world space: R · v + t.
func (p Pose) Apply(v Vec3) Vec3 {
	return p.Rotate(v).Add(p.Translation())
}

// Orthonormalized rescales each rotation column to unit length, removing any
// scale baked into a scene-graph transform. Zero columns are left untouched.
func (p Pose) Orthonormalized() Pose {
	out := p
	for col := range 3 {
		c := Vec3{p[0][col], p[1][col], p[2][col]}
		l := c.Len()
		if l == 0 {
			continue
		}
		out[0][col], out[1][col], out[2][col] = c.X/l, c.Y/l, c.Z/l
	}
	return out
}

// LookAtPose returns the camera-to-world pose of a camera at eye looking at
// target. The camera looks down its -Z axis with +Y as up. eye and target
// must differ.
func LookAtPose(eye, target, up Vec3) Pose {
	f := target.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	if s.Len() == 0 {
		// up is parallel to the view direction
		s = f.Cross(V3(0, 0, 1)).Normalize()
		if s.Len() == 0 {
			s = V3(1, 0, 0)
		}
	}
	u := s.Cross(f)
	b := f.Negate()

	return Pose{
		{s.X, u.X, b.X, eye.X},
		{s.Y, u.Y, b.Y, eye.Y},
		{s.Z, u.Z, b.Z, eye.Z},
	}
}
