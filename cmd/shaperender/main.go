// shaperender rasterises a shape description file to a PNG without opening
// a window.
package main

import (
	"flag"
	"os"
	"strings"

	"github.com/spaghettifunk/anima-vector/engine/assets"
	"github.com/spaghettifunk/anima-vector/engine/core"
	"github.com/spaghettifunk/anima-vector/engine/graphics"
	"github.com/spaghettifunk/anima-vector/engine/renderer/raster"
)

func main() {
	in := flag.String("in", "", "shape description file (*"+assets.ShapeFileExtension+")")
	out := flag.String("out", "", "output PNG, defaults to the input name with .png")
	width := flag.Int("w", 512, "image width")
	height := flag.Int("h", 512, "image height")
	background := flag.String("bg", "#000000ff", "background colour")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *out == "" {
		*out = strings.TrimSuffix(*in, assets.ShapeFileExtension) + ".png"
	}

	if err := render(*in, *out, *width, *height, *background); err != nil {
		core.LogFatal("%s", err)
	}
	core.LogInfo("wrote %s", *out)
}

func render(in, out string, width, height int, background string) error {
	bg, err := graphics.ParseHexColor(background)
	if err != nil {
		return err
	}
	shape, desc, err := assets.LoadShapeFile(in)
	if err != nil {
		return err
	}

	b := raster.New(width, height)
	b.SetBackground(bg)
	if err := b.BeginFrame(0); err != nil {
		return err
	}
	origin := desc.Origin()
	if err := shape.DrawAt(b, origin.X, origin.Y); err != nil {
		return err
	}
	if err := b.EndFrame(0); err != nil {
		return err
	}
	return b.SavePNG(out)
}
