package e2s

func nullTermStr(b []byte) string {
	return string(b[:clen(b)])
}

func clen(num []byte) int {
	for i := range num {
		if num[i] == 0 {
			return i
		}
	}

	return len(num)
}

// asciiBytes keeps the ASCII characters of s, dropping everything else.
func asciiBytes(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r < 0x80 {
			out = append(out, byte(r))
		}
	}

	return out
}
