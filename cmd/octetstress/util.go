package main

// noCopy is embedded in the coordination primitives in coordination.go;
// go vet's -copylocks check flags any accidental pass-by-value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
