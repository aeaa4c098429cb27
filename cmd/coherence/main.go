// Package main provides the coherence command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"github.com/born-ml/coherence/backend/cpu"
	"github.com/born-ml/coherence/backend/webgpu"
	"github.com/born-ml/coherence/sharedmem"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	switch os.Args[1] {
	case "version":
		fmt.Printf("coherence %s\n", version)
	case "devices":
		listDevices()
	case "bench":
		if err := runBench(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "bench: %v\n", err)
			os.Exit(1)
		}
	default:
		usage()
	}
}

func usage() {
	fmt.Println("coherence - device-coherent shared memory for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  devices    List available devices")
	fmt.Println("  bench      Measure synchronization throughput")
}

func listDevices() {
	host := cpu.New()
	fmt.Printf("%-10s %s\n", host.ID(), host.Name())

	if !webgpu.IsAvailable() {
		fmt.Println("WebGPU:0   not available")
		return
	}
	gpu, err := webgpu.New()
	if err != nil {
		fmt.Printf("WebGPU:0   unavailable: %v\n", err)
		return
	}
	defer gpu.Release()
	fmt.Printf("%-10s %s\n", gpu.ID(), gpu.Name())
}

func runBench(args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	elems := fs.Int("n", 1<<20, "elements per buffer (float32)")
	iters := fs.Int("iters", 100, "sync round trips")
	if err := fs.Parse(args); err != nil {
		return err
	}

	hostA := cpu.New()
	hostB := cpu.NewDevice(1)
	if err := benchPair("host -> host", hostA, hostB, *elems, *iters); err != nil {
		return err
	}

	if !webgpu.IsAvailable() {
		fmt.Println("host -> gpu: skipped, WebGPU not available")
		return nil
	}
	gpu, err := webgpu.New()
	if err != nil {
		return err
	}
	defer gpu.Release()
	if err := benchPair("host -> gpu", cpu.New(), gpu, *elems, *iters); err != nil {
		return err
	}
	fmt.Printf("gpu memory: %s\n", gpu.MemoryStats())
	return nil
}

// benchPair measures round-trip synchronization between two devices.
// Each iteration moves the latest copy a -> b -> a.
func benchPair(label string, a, b sharedmem.Device, elems, iters int) error {
	buf, err := sharedmem.New[float32](a, elems)
	if err != nil {
		return err
	}
	if err := buf.AddDevice(b); err != nil {
		return err
	}

	bar := progressbar.Default(int64(iters), label)
	start := time.Now()
	for i := 0; i < iters; i++ {
		if err := buf.Sync(b); err != nil {
			return err
		}
		if err := buf.Sync(a); err != nil {
			return err
		}
		_ = bar.Add(1)
	}
	elapsed := time.Since(start)

	moved := uint64(buf.ByteSize()) * uint64(iters) * 2
	perSec := float64(moved) / elapsed.Seconds()
	fmt.Printf("%s: %s in %s (%s/s)\n",
		label, humanize.IBytes(moved), elapsed.Round(time.Millisecond), humanize.IBytes(uint64(perSec)))
	return nil
}
