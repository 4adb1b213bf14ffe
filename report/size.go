package report

import "fmt"

type sizeUnit struct {
	name  string
	bytes int64
}

// units is ordered from largest to smallest.
var units = []sizeUnit{
	{"PiB", 1 << 50},
	{"TiB", 1 << 40},
	{"GiB", 1 << 30},
	{"MiB", 1 << 20},
	{"KiB", 1 << 10},
}

// PrettySize renders bytes in the largest binary unit that fits, with three
// decimals. Values under 1 KiB are printed as plain bytes.
func PrettySize(bytes int64) string {
	for _, u := range units {
		if bytes >= u.bytes {
			return fmt.Sprintf("%.3f %s", float64(bytes)/float64(u.bytes), u.name)
		}
	}
	return fmt.Sprintf("%d Bytes", bytes)
}
