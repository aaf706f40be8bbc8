package touch

import "strconv"

// ColorForTouch 根据标识符生成 "#rgb" 形式的颜色：
// r = id mod 16，g = floor(id/3) mod 16，b = floor(id/7) mod 16。
// 不同标识符可能得到相同颜色。
func ColorForTouch(id int) string {
	r := hexDigit(id)
	g := hexDigit(floorDiv(id, 3))
	b := hexDigit(floorDiv(id, 7))
	return "#" + r + g + b
}

func hexDigit(n int) string {
	m := n % 16
	if m < 0 {
		m += 16
	}
	return strconv.FormatInt(int64(m), 16)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
