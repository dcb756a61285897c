package main

import (
	"fmt"
	"os"

	"github.com/simonhull/xmpmeta/internal/mp4"
)

// Lists the top-level boxes of an MP4 to check where the XMP box landed
// after a save.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: box-dump <file.mp4>")
		os.Exit(1)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	boxes, err := mp4.Boxes(f, stat.Size(), os.Args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	for _, b := range boxes {
		mark := ""
		if mp4.IsXMP(f, stat.Size(), b) {
			mark = " <- XMP"
		}
		fmt.Printf("%s (size: %d, offset: %d)%s\n", b.Type, b.Size, b.Offset, mark)
	}
}
