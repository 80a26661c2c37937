// Command abelesctl loads a thin-film stack description from a JSON5
// file and prints its reflectance, transmittance and absorptance over
// the configured wavelength grid, optionally saving a spectrum plot.
//
// Usage:
//
//	abelesctl -stack stack.json5 -plot spectrum.png
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"

	"github.com/bob-anderson-ok/abeles"
	"github.com/bob-anderson-ok/abeles/config"
	"github.com/bob-anderson-ok/abeles/plot"
)

func main() {
	stackPath := flag.String("stack", "", "path to a JSON5 stack description")
	plotPath := flag.String("plot", "", "optional path to save an R/T/A spectrum plot (PNG)")
	polFlag := flag.String("pol", "mixed", "polarization: s, p or mixed")
	flag.Parse()

	if *stackPath == "" {
		log.Fatal("abelesctl: -stack is required")
	}

	data, err := os.ReadFile(*stackPath)
	if err != nil {
		log.Fatalf("abelesctl: %v", err)
	}

	cfg, err := config.Load(data)
	if err != nil {
		log.Fatalf("abelesctl: %v", err)
	}

	stack, err := cfg.BuildStack()
	if err != nil {
		log.Fatalf("abelesctl: %v", err)
	}
	if err := stack.Prepare(); err != nil {
		log.Fatalf("abelesctl: %v", err)
	}

	pol, err := parsePolarization(*polFlag)
	if err != nil {
		log.Fatalf("abelesctl: %v", err)
	}

	sp := stack.Spectrum(pol)
	fmt.Println("wavelength_nm\tR\tT\tA")
	for i := 0; i < stack.Wvls.Len(); i++ {
		fmt.Printf("%.2f\t%.6f\t%.6f\t%.6f\n", stack.Wvls.At(i), sp.R[i], sp.T[i], sp.A[i])
	}

	if *plotPath != "" {
		img, err := plot.Spectrum(sp, stack.Wvls, 1200, 500)
		if err != nil {
			log.Fatalf("abelesctl: %v", err)
		}
		f, err := os.Create(*plotPath)
		if err != nil {
			log.Fatalf("abelesctl: %v", err)
		}
		defer f.Close()
		if err := png.Encode(f, img); err != nil {
			log.Fatalf("abelesctl: %v", err)
		}
		fmt.Printf("saved spectrum plot to %s\n", *plotPath)
	}
}

func parsePolarization(s string) (abeles.Polarization, error) {
	switch s {
	case "s":
		return abeles.PolS, nil
	case "p":
		return abeles.PolP, nil
	case "mixed", "":
		return abeles.PolMixed, nil
	default:
		return 0, fmt.Errorf("unknown polarization %q (want s, p or mixed)", s)
	}
}
