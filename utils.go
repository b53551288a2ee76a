package wireframe

import "math"

const (
	pi  = math.Pi
	tau = 2 * pi
)

// DtoR converts degrees to radians
func DtoR(degrees float64) float64 {
	return (pi / 180) * degrees
}

// RtoD converts radians to degrees
func RtoD(radians float64) float64 {
	return (180 / pi) * radians
}

// WrapAngle returns radians wrapped to [0, 2π).
func WrapAngle(radians float64) float64 {
	a := math.Mod(radians, tau)
	if a < 0 {
		a += tau
	}
	return a
}
