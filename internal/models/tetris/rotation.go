package tetris

// RotationState はピースの回転状態を表します。
// 時計回りの順序は Spawn -> Right90 -> Two180 -> Left270 -> Spawn です。
type RotationState int

const (
	RotationSpawn   RotationState = iota // 0: 出現時の向き
	RotationRight90                      // 1: 時計回りに90度
	RotationTwo180                       // 2: 180度
	RotationLeft270                      // 3: 反時計回りに90度 (270度)
)

// rotationStateCount は回転状態の総数です。
const rotationStateCount = 4

// normalize は範囲外の値を 0..3 に丸めます。
func (r RotationState) normalize() RotationState {
	return ((r % rotationStateCount) + rotationStateCount) % rotationStateCount
}

// Clockwise は時計回りに隣接する回転状態を返します。
func (r RotationState) Clockwise() RotationState {
	return (r.normalize() + 1) % rotationStateCount
}

// CounterClockwise は反時計回りに隣接する回転状態を返します。
func (r RotationState) CounterClockwise() RotationState {
	return (r.normalize() + rotationStateCount - 1) % rotationStateCount
}

// Degrees は回転角度を度数で返します (0, 90, 180, 270)。
func (r RotationState) Degrees() int {
	return int(r.normalize()) * 90
}

func (r RotationState) String() string {
	switch r.normalize() {
	case RotationRight90:
		return "R"
	case RotationTwo180:
		return "2"
	case RotationLeft270:
		return "L"
	default:
		return "0"
	}
}
