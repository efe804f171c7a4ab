package directive

// Mask rewrites every byte range in ranges to ASCII spaces, leaving
// newlines untouched so line/column math stays correct. It is the
// fast-mode pre-pass that hands internal/syntax's parser a file with its
// directive attributes blanked out, without shifting any
// byte offsets (grounded on source.Span's shift helpers: masking, like
// shifting, must never change a span's relative position).
func Mask(src []byte, ranges [][2]int) []byte {
	out := append([]byte(nil), src...)
	for _, r := range ranges {
		for i := r[0]; i < r[1] && i < len(out); i++ {
			if out[i] != '\n' {
				out[i] = ' '
			}
		}
	}
	return out
}
