package utility

// Contains kiểm tra item có mặt trong slice hay không
func Contains[T comparable](slice []T, item T) bool {
	for i := range slice {
		if slice[i] == item {
			return true
		}
	}
	return false
}
