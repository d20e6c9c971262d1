package types

import (
	"fmt"
	"os"
)

// Bytes is a size in bytes, used to report written artifacts.
type Bytes uint64

var units = []struct {
	suffix string
	size   Bytes
}{
	{"TB", 1 << 40},
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
}

// Humanized returns a human-readable size with a 1024-based unit.
func (b Bytes) Humanized() string {
	for _, u := range units {
		if b >= u.size {
			return fmt.Sprintf("%.2f %s", float64(b)/float64(u.size), u.suffix)
		}
	}
	return fmt.Sprintf("%d B", uint64(b))
}

func (b Bytes) String() string { return b.Humanized() }

// KB returns the size in kilobytes (1024 base).
func (b Bytes) KB() float64 { return float64(b) / 1024 }

// SizeOf returns the size of the file at path.
func SizeOf(path string) (Bytes, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return Bytes(fi.Size()), nil
}
