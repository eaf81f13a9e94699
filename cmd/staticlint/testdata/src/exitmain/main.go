package main

import (
	"fmt"
	"os"
)

func main() {
	defer fmt.Println("never printed")

	go func() {
		os.Exit(2)
	}()

	if len(os.Args) > 3 {
		os.Exit(1) // want "os.Exit called in main; return from run instead"
	}
}

func helper() {
	os.Exit(3)
}
