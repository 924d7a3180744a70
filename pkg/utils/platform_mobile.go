//go:build mobile

package utils

// IsMobile 移动端编译时始终返回 true（触摸拖动滚动，始终全屏）
func IsMobile() bool {
	return true
}
