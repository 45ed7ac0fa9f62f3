// Command sandsim drives the falling-sand engine headlessly: no window, no
// input, no renderer. It mirrors the teacher's game-loop tick structure
// (reset profiling, advance state, report, repeat) with the render and
// input stages removed, since there's nothing to draw or click here.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"sandcore/gridmath"
	"sandcore/internal/config"
	"sandcore/internal/profiling"
	"sandcore/sandworld"
	"sandcore/snapshot"
	"sandcore/worldgen"
)

func main() {
	seed := flag.Int64("seed", 1, "world generator seed")
	ticks := flag.Int("ticks", 600, "number of simulation ticks to run (0 runs forever)")
	width := flag.Int("width", 128, "visible-area width in cells")
	height := flag.Int("height", 128, "visible-area height in cells")
	reportEvery := flag.Int("report-every", 60, "print stats every N ticks")
	configPath := flag.String("config", "sandcore.yaml", "optional settings override file")
	flat := flag.Bool("flat", false, "use the deterministic flat generator instead of noise terrain")
	snapshotPath := flag.String("snapshot", "", "if set, write a PNG of the visible area to this path after the run")
	flag.Parse()

	if err := config.LoadFile(*configPath); err != nil {
		fmt.Printf("config: failed to load %s: %v\n", *configPath, err)
	}

	var gen sandworld.WorldGenerator
	if *flat {
		gen = worldgen.NewFlatGenerator(0)
	} else {
		gen = worldgen.NewGenerator(*seed)
	}
	world := sandworld.NewWorld(gen)

	half := gridmath.Vec{X: int32(*width) / 2, Y: int32(*height) / 2}
	visible := gridmath.NewBounds(gridmath.Vec{}, half)

	ctx := context.Background()
	budget := int64(config.GetTargetChunkUpdates())

	frames := 0
	lastReport := time.Now()
	var totalChunkUpdates int64

	for i := 0; *ticks == 0 || i < *ticks; i++ {
		profiling.ResetFrame()

		stats := world.Update(ctx, visible, budget)
		totalChunkUpdates += stats.ChunkUpdates
		frames++

		if *reportEvery > 0 && frames%*reportEvery == 0 {
			elapsed := time.Since(lastReport)
			fmt.Printf("tick %d: %d chunk updates, %d region updates, %d regions loaded (%.2fms/tick avg) [%s]\n",
				i+1, stats.ChunkUpdates, stats.RegionUpdates, stats.LoadedRegions,
				float64(elapsed.Milliseconds())/float64(*reportEvery),
				profiling.TopN(3))
			lastReport = time.Now()
		}
	}

	fmt.Printf("done: %d ticks, %d total chunk updates\n", frames, totalChunkUpdates)

	if *snapshotPath != "" {
		if err := snapshot.WritePNG(world, visible, *snapshotPath); err != nil {
			fmt.Printf("snapshot: %v\n", err)
		} else {
			fmt.Printf("snapshot: wrote %s\n", *snapshotPath)
		}
	}
}
