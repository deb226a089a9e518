package tetris

// kickKey は回転前と回転後の状態の組です。
type kickKey struct {
	from RotationState
	to   RotationState
}

// noKick は壁蹴りを行わない場合の唯一の候補です。
var noKick = []Point{{0, 0}}

// jlstzKicks は J, L, S, T, Z-ミノ共通の SRS 壁蹴りオフセットです (Y は上向き)。
var jlstzKicks = map[kickKey][]Point{
	{RotationSpawn, RotationRight90}:  {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	{RotationRight90, RotationSpawn}:  {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
	{RotationRight90, RotationTwo180}: {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
	{RotationTwo180, RotationRight90}: {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	{RotationTwo180, RotationLeft270}: {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
	{RotationLeft270, RotationTwo180}: {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	{RotationLeft270, RotationSpawn}:  {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	{RotationSpawn, RotationLeft270}:  {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
}

// iKicks は I-ミノ専用の SRS 壁蹴りオフセットです。
var iKicks = map[kickKey][]Point{
	{RotationSpawn, RotationRight90}:  {{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
	{RotationRight90, RotationSpawn}:  {{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
	{RotationRight90, RotationTwo180}: {{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
	{RotationTwo180, RotationRight90}: {{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
	{RotationTwo180, RotationLeft270}: {{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
	{RotationLeft270, RotationTwo180}: {{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
	{RotationLeft270, RotationSpawn}:  {{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
	{RotationSpawn, RotationLeft270}:  {{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
}

// WallKicks は回転時に試す平行移動オフセットの候補を試行順に返します。
// 先頭は常に (0, 0) です。Oミノ、および隣接しない状態間の遷移では (0, 0) のみを返します。
// 返されるスライスは呼び出し側で変更しないでください。
//
// Parameters:
//   t    : テトリミノの種類
//   from : 回転前の状態
//   to   : 回転後の状態
// Returns:
//   []Point: 壁蹴りオフセットの候補
func WallKicks(t PieceType, from, to RotationState) []Point {
	table := jlstzKicks
	switch t {
	case TypeO:
		return noKick
	case TypeI:
		table = iKicks
	}
	if kicks, ok := table[kickKey{from.normalize(), to.normalize()}]; ok {
		return kicks
	}
	return noKick
}
