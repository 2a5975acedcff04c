// moddump prints a MOD file's header, sample table, and pattern table.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/amiga-tracker/modplayer"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("moddump: ")

	if len(os.Args) <= 1 {
		log.Fatal("Missing MOD filename")
	}

	buf, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}

	mod, err := modplayer.NewModuleFromBytes(buf)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Title:    %q\n", mod.Name)
	fmt.Printf("Channels: %d\n", mod.NumChannels)
	fmt.Printf("Song len: %d\n", mod.SongLength)
	fmt.Printf("Patterns: %d\n\n", len(mod.Patterns))

	fmt.Println("Samples:")
	for i := 1; i < len(mod.Samples); i++ {
		s := mod.Samples[i]
		if s.Length == 0 && s.Name == "" {
			continue
		}
		loopInfo := "no loop"
		if s.Loop {
			loopInfo = fmt.Sprintf("loop %d+%d", s.RepeatOffset, s.RepeatLength)
		}
		fmt.Printf("  %2d %-22q len=%-6d vol=%-3d finetune=%-3d %s\n",
			i, s.Name, s.Length, s.Volume, s.FineTune, loopInfo)
	}

	fmt.Println("\nOrder table:")
	for i := 0; i < mod.SongLength; i++ {
		fmt.Printf("  %3d -> pattern %d\n", i, mod.PatternTable[i])
	}
}
