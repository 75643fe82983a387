package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

func DegToRadV3(v mgl32.Vec3) mgl32.Vec3 {
	return v.Mul(math.Pi / 180.0)
}

func RadToDegV3(v mgl32.Vec3) mgl32.Vec3 {
	return v.Mul(180.0 / math.Pi)
}

// EulerDegToQuat builds the rotation quaternion for XYZ Euler angles given
// in degrees, the order the document stores rotations in.
func EulerDegToQuat(deg mgl32.Vec3) mgl32.Quat {
	r := DegToRadV3(deg)
	return mgl32.AnglesToQuat(r.X(), r.Y(), r.Z(), mgl32.XYZ)
}

// QuatToEulerDeg is the inverse of EulerDegToQuat.
func QuatToEulerDeg(q mgl32.Quat) (e mgl32.Vec3) {
	sinrCosp := float64(2 * (q.W*q.X() + q.Y()*q.Z()))
	cosrCosp := float64(1 - 2*(q.X()*q.X()+q.Y()*q.Y()))
	e[0] = float32(math.Atan2(sinrCosp, cosrCosp))

	sinp := float64(2 * (q.W*q.Y() - q.Z()*q.X()))
	if math.Abs(sinp) >= 1 {
		e[1] = float32(math.Copysign(math.Pi/2, sinp))
	} else {
		e[1] = float32(math.Asin(sinp))
	}

	sinyCosp := float64(2 * (q.W*q.Z() + q.X()*q.Y()))
	cosyCosp := float64(1 - 2*(q.Y()*q.Y()+q.Z()*q.Z()))
	e[2] = float32(math.Atan2(sinyCosp, cosyCosp))

	return RadToDegV3(e)
}
