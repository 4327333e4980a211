//go:build !darwin && !linux

package proc

func archOf(pid int32) string { return "" }
