//go:build !tinygo

package kernel

func halt(detail string) {
	panic("kernel trap: " + detail)
}
