package utils

// Viewport-relative fades and off-screen tests shared by the particle families.
// Every helper treats a zero or negative viewport as "nothing visible" and never
// divides by a zero denominator.

// CenterOpacity returns 1 at the viewport's focal line (height*centerRatio) and
// falls off linearly to 0 at height*maxDistanceRatio away from it.
func CenterOpacity(viewportY, viewportHeight, centerRatio, maxDistanceRatio float64) float64 {
	maxDistance := viewportHeight * maxDistanceRatio
	if viewportHeight <= 0 || maxDistance <= 0 {
		return 0
	}
	centerY := viewportHeight * centerRatio
	distance := viewportY - centerY
	if distance < 0 {
		distance = -distance
	}
	opacity := 1 - distance/maxDistance
	if opacity < 0 {
		return 0
	}
	return opacity
}

// EdgeFadeOpacity fades to 0 inside the top and bottom fade zones
// (fadeZoneRatio of the viewport height) and is 1 in between.
func EdgeFadeOpacity(viewportY, viewportHeight, fadeZoneRatio float64) float64 {
	fadeZone := viewportHeight * fadeZoneRatio
	if viewportHeight <= 0 || fadeZone <= 0 {
		return 0
	}
	switch {
	case viewportY < fadeZone:
		if viewportY < 0 {
			return 0
		}
		return viewportY / fadeZone
	case viewportY > viewportHeight-fadeZone:
		v := (viewportHeight - viewportY) / fadeZone
		if v < 0 {
			return 0
		}
		return v
	}
	return 1
}

// OffScreenX reports whether x has left [0, width] by more than 2*size.
func OffScreenX(x, size, viewportWidth float64) bool {
	buffer := size * 2
	return x < -buffer || x > viewportWidth+buffer
}

// OffScreenY reports whether y has left [0, height] by more than 6*size.
func OffScreenY(y, size, viewportHeight float64) bool {
	buffer := size * 6
	return y < -buffer || y > viewportHeight+buffer
}

// InViewportY reports whether y lies within one size of [0, height].
func InViewportY(y, size, viewportHeight float64) bool {
	return y > -size && y < viewportHeight+size
}
