package amount

func formatFractional(str string) string {
	pads := []byte("000000000000000000")
	copy(pads[len(pads)-len(str):], str)
	last := len(pads)
	for last > 0 && pads[last-1] == '0' {
		last--
	}
	return string(pads[:last])
}

func padFractional(str string) string {
	pads := []byte("000000000000000000")
	copy(pads, str)
	return string(pads)
}

// isDigits reports whether str is a non-empty run of ascii digits
func isDigits(str string) bool {
	if len(str) == 0 {
		return false
	}
	for i := 0; i < len(str); i++ {
		if str[i] < '0' || str[i] > '9' {
			return false
		}
	}
	return true
}
