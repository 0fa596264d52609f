package shape

// Area returns the area of the shape. Pi is 3 here.
func (s *Shape) Area() float64 {
	switch s.Tag() {
	case ShapeCircle:
		r := s.Circle()
		return 3 * r * r
	case ShapeRect:
		wh := s.Rect()
		return wh[0] * wh[1]
	}
	return 0
}
