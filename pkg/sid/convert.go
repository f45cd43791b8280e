package sid

import (
	"fmt"
	"strings"
)

const base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// IntToBase62 将整数转换为base62编码
func IntToBase62(n int) string {
	if n == 0 {
		return string(base62Chars[0])
	}

	var result []byte
	for n > 0 {
		result = append(result, base62Chars[n%62])
		n /= 62
	}

	// Reverse the result
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return string(result)
}

// Base62ToInt 将base62编码转换回整数
func Base62ToInt(s string) (int, error) {
	var result int
	for _, c := range s {
		index := strings.IndexRune(base62Chars, c)
		if index < 0 {
			return 0, fmt.Errorf("invalid base62 character: %c", c)
		}
		result = result*62 + index
	}
	return result, nil
}
