// modwav renders a MOD file to a 16-bit stereo WAVE file.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/amiga-tracker/modplayer"
	"github.com/amiga-tracker/modplayer/wav"
)

var (
	flagWavOut  = flag.String("wav", "", "output WAVE file path (required)")
	flagHz      = flag.Int("hz", 44100, "output sample rate")
	flagSeconds = flag.Float64("seconds", 120, "seconds of audio to render; the song loops if shorter")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("modwav: ")
	flag.Parse()

	if len(flag.Args()) == 0 {
		log.Fatal("Missing MOD filename")
	}
	if *flagWavOut == "" {
		log.Fatal("No -wav option provided")
	}

	modF, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	player, err := modplayer.NewPlayerFromBytes(modF)
	if err != nil {
		log.Fatal(err)
	}
	player.SetSampleRate(*flagHz)

	wavF, err := os.Create(*flagWavOut)
	if err != nil {
		log.Fatal(err)
	}
	defer wavF.Close()

	wavW, err := wav.NewWriter(wavF, *flagHz)
	if err != nil {
		log.Fatal(err)
	}
	defer wavW.Finish()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT)
	interrupted := false
	go func() {
		<-sigc
		interrupted = true
	}()

	const chunkFrames = 1024
	left := make([]int16, chunkFrames)
	right := make([]int16, chunkFrames)
	stereo := make([][]int16, 2)
	interleaved := make([]int16, chunkFrames*2)

	framesTotal := int(*flagSeconds * float64(*flagHz))
	framesDone := 0
	for framesDone < framesTotal && !interrupted {
		n := chunkFrames
		if framesTotal-framesDone < n {
			n = framesTotal - framesDone
		}

		if err := player.DecodeFrames(n, interleaved[:n*2]); err != nil {
			log.Fatal(err)
		}
		for i := 0; i < n; i++ {
			left[i] = interleaved[i*2]
			right[i] = interleaved[i*2+1]
		}
		stereo[0], stereo[1] = left[:n], right[:n]
		if err := wavW.WriteFrame(stereo); err != nil {
			log.Fatal(err)
		}

		framesDone += n
	}
}
